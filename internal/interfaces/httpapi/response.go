package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "survivor-pool"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code      int               `json:"code"`
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Retryable bool              `json:"retryable,omitempty"`
	Errors    []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// writeJSON buffers the whole body before the status line is written.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","error":{"code":500,"message":"internal server error","status":"INTERNAL"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:      mapped.HTTPStatus,
			Message:   err.Error(),
			Status:    mapped.Status,
			Retryable: usecase.IsRetryable(err),
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// errorMappings is ordered: domain kinds come before the generic kinds that may wrap them.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{schedule.ErrInvalidWeek, mappedError{http.StatusBadRequest, "invalidWeek", "INVALID_ARGUMENT"}},
	{entry.ErrInvalidNickname, mappedError{http.StatusBadRequest, "invalidNickname", "INVALID_ARGUMENT"}},
	{result.ErrInvalidOutcome, mappedError{http.StatusBadRequest, "invalidOutcome", "INVALID_ARGUMENT"}},
	{pick.ErrUnknownTeam, mappedError{http.StatusBadRequest, "unknownTeam", "INVALID_ARGUMENT"}},
	{pick.ErrEntryNotVerified, mappedError{http.StatusUnprocessableEntity, "entryNotVerified", "FAILED_PRECONDITION"}},
	{pick.ErrWeekLocked, mappedError{http.StatusUnprocessableEntity, "weekLocked", "FAILED_PRECONDITION"}},
	{pick.ErrPickAlreadyExists, mappedError{http.StatusConflict, "pickAlreadyExists", "ALREADY_EXISTS"}},
	{pick.ErrTeamAlreadyUsed, mappedError{http.StatusConflict, "teamAlreadyUsed", "ALREADY_EXISTS"}},
	{team.ErrDuplicateTeam, mappedError{http.StatusConflict, "duplicateTeam", "ALREADY_EXISTS"}},
	{team.ErrTeamInUse, mappedError{http.StatusConflict, "teamInUse", "FAILED_PRECONDITION"}},
	{user.ErrEmailTaken, mappedError{http.StatusConflict, "emailTaken", "ALREADY_EXISTS"}},
	{usecase.ErrConflict, mappedError{http.StatusConflict, "conflict", "ABORTED"}},
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, mappedError{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}},
	{errRateLimited, mappedError{http.StatusTooManyRequests, "rateLimited", "RESOURCE_EXHAUSTED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func mapError(err error) mappedError {
	for _, item := range errorMappings {
		if errors.Is(err, item.target) {
			return item.mapped
		}
	}

	return mappedError{
		HTTPStatus: http.StatusInternalServerError,
		Reason:     "internalError",
		Status:     "INTERNAL",
	}
}
