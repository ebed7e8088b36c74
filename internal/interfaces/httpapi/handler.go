package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	userService     *usecase.UserService
	teamService     *usecase.TeamService
	entryService    *usecase.EntryService
	pickService     *usecase.PickService
	resultService   *usecase.ResultService
	standingService *usecase.StandingService
	calendar        schedule.Calendar
	logger          *logging.Logger
	validator       *validator.Validate
	now             func() time.Time
}

func NewHandler(
	userService *usecase.UserService,
	teamService *usecase.TeamService,
	entryService *usecase.EntryService,
	pickService *usecase.PickService,
	resultService *usecase.ResultService,
	standingService *usecase.StandingService,
	calendar schedule.Calendar,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		userService:     userService,
		teamService:     teamService,
		entryService:    entryService,
		pickService:     pickService,
		resultService:   resultService,
		standingService: standingService,
		calendar:        calendar,
		logger:          logger,
		validator:       validator.New(validator.WithRequiredStructEnabled()),
		now:             time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// ScheduleWeek reports the pick deadline for one week and whether it has passed.
func (h *Handler) ScheduleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleWeek")
	defer span.End()

	week, err := parseWeek(r.PathValue("week"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	now := h.now()
	week, err = h.calendar.ResolveWeek(week, now)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	deadline, err := h.calendar.DeadlineFor(week)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekScheduleDTO{
		Week:        week,
		Deadline:    deadline.UTC().Format(time.RFC3339),
		Locked:      now.After(deadline),
		CurrentWeek: h.calendar.CurrentWeek(now),
	})
}

// decodeJSON rejects unknown fields, then runs struct validation.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeJSON")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body too large", usecase.ErrInvalidInput)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseWeek accepts an empty value or "current" as week 0.
func parseWeek(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "current") {
		return 0, nil
	}

	week, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", schedule.ErrInvalidWeek, raw)
	}
	return week, nil
}
