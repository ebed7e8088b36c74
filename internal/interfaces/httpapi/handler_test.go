package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/account"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "admin@pool.test"
	testAdminPassword = "admin-password"
)

type apiResponse struct {
	Data  any `json:"data"`
	Error *struct {
		Code      int    `json:"code"`
		Status    string `json:"status"`
		Retryable bool   `json:"retryable"`
		Errors    []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (r apiResponse) reason() string {
	if r.Error == nil || len(r.Error.Errors) == 0 {
		return ""
	}
	return r.Error.Errors[0].Reason
}

func (r apiResponse) object(t *testing.T) map[string]any {
	t.Helper()
	out, ok := r.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", r.Data)
	}
	return out
}

func (r apiResponse) list(t *testing.T) []any {
	t.Helper()
	out, ok := r.Data.([]any)
	if !ok {
		t.Fatalf("expected list data, got %T", r.Data)
	}
	return out
}

func newTestRouter(t *testing.T, limiter *ClientRateLimiter) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	users := memory.NewUserRepository()
	entries := memory.NewEntryRepository()
	teams := memory.NewTeamRepository(memory.SeedTeams())
	picks := memory.NewPickRepository()
	results := memory.NewResultRepository()

	// Week 1 stays open for the whole test run.
	calendar := schedule.NewCalendar(time.Now().Add(72*time.Hour), time.Time{})
	roster := usecase.NewRosterGuard()
	ids := id.NewUUIDGenerator()

	userSvc := usecase.NewUserService(users, entries, picks,
		account.NewBcryptHasher(bcrypt.MinCost),
		account.NewTokenIssuer("test-secret", "survivor-pool-test", time.Hour),
		logger,
	)
	teamSvc := usecase.NewTeamService(teams, picks, results, roster, ids, logger)
	entrySvc := usecase.NewEntryService(users, entries, ids, logger)
	pickSvc := usecase.NewPickService(entries, teams, picks, calendar, roster, ids, logger)
	resultSvc := usecase.NewResultService(teams, results, entries, picks, roster, logger)
	standingSvc := usecase.NewStandingService(entries, picks, results, 2, logger)

	if err := userSvc.EnsureAdmin(context.Background(), testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	handler := NewHandler(userSvc, teamSvc, entrySvc, pickSvc, resultSvc, standingSvc, calendar, logger)
	return NewRouter(handler, userSvc, RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		LoginLimiter:       limiter,
	}, logger)
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, apiResponse) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out apiResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %s %s response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, out
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()

	status, resp := call(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d reason %q", email, status, resp.reason())
	}
	token, _ := resp.object(t)["accessToken"].(string)
	if token == "" {
		t.Fatalf("expected access token for %s", email)
	}
	return token
}

func registerAndLogin(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	status, resp := call(t, h, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d reason %q", email, status, resp.reason())
	}
	return login(t, h, email, "password123")
}

func TestSurvivorFlowOverHTTP(t *testing.T) {
	h := newTestRouter(t, nil)
	adminToken := login(t, h, testAdminEmail, testAdminPassword)
	aliceToken := registerAndLogin(t, h, "alice@pool.test")

	status, resp := call(t, h, http.MethodPost, "/v1/entries", aliceToken, map[string]string{"nickname": "Alice One"})
	if status != http.StatusCreated {
		t.Fatalf("create entry: status %d reason %q", status, resp.reason())
	}
	entryID, _ := resp.object(t)["id"].(string)

	status, resp = call(t, h, http.MethodPost, "/v1/picks", aliceToken, map[string]any{
		"entryId": entryID, "week": 1, "teamName": "Chiefs",
	})
	if status != http.StatusUnprocessableEntity || resp.reason() != "entryNotVerified" {
		t.Fatalf("expected entryNotVerified, got %d %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/entries/"+entryID+"/verify", aliceToken, nil)
	if status != http.StatusForbidden || resp.reason() != "forbidden" {
		t.Fatalf("expected player verify to be forbidden, got %d %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/entries/"+entryID+"/verify", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("verify entry: status %d reason %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/picks", aliceToken, map[string]any{
		"entryId": entryID, "week": 1, "teamName": "Chiefs",
	})
	if status != http.StatusCreated {
		t.Fatalf("submit pick: status %d reason %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/picks", aliceToken, map[string]any{
		"entryId": entryID, "week": 2, "teamName": "Chiefs",
	})
	if status != http.StatusConflict || resp.reason() != "teamAlreadyUsed" {
		t.Fatalf("expected teamAlreadyUsed, got %d %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/picks", aliceToken, map[string]any{
		"entryId": entryID, "week": 1, "teamName": "Bills",
	})
	if status != http.StatusConflict || resp.reason() != "pickAlreadyExists" {
		t.Fatalf("expected pickAlreadyExists, got %d %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/picks", aliceToken, map[string]any{
		"entryId": entryID, "week": 2, "teamName": "Hornets",
	})
	if status != http.StatusBadRequest || resp.reason() != "unknownTeam" {
		t.Fatalf("expected unknownTeam, got %d %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPost, "/v1/results", aliceToken, map[string]any{
		"week": 1, "teamName": "Chiefs", "outcome": "win",
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected player result recording to be forbidden, got %d", status)
	}

	status, resp = call(t, h, http.MethodPost, "/v1/results", adminToken, map[string]any{
		"week": 1, "teamName": "Chiefs", "outcome": "win",
	})
	if status != http.StatusOK {
		t.Fatalf("record result: status %d reason %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodGet, "/v1/entries/"+entryID+"/status", aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("entry status: status %d reason %q", status, resp.reason())
	}
	entryStatus := resp.object(t)
	if eliminated, _ := entryStatus["eliminated"].(bool); eliminated {
		t.Fatalf("expected entry to survive week 1")
	}
	if survived, _ := entryStatus["survivedWeeks"].(float64); survived != 1 {
		t.Fatalf("expected one survived week, got %v", entryStatus["survivedWeeks"])
	}

	status, resp = call(t, h, http.MethodGet, "/v1/picks/me", aliceToken, nil)
	if status != http.StatusOK || len(resp.list(t)) != 1 {
		t.Fatalf("expected one pick for alice, got %d %+v", status, resp.Data)
	}

	status, resp = call(t, h, http.MethodGet, "/v1/standings", adminToken, nil)
	if status != http.StatusOK || len(resp.list(t)) != 1 {
		t.Fatalf("expected one standing row, got %d %+v", status, resp.Data)
	}
}

func TestEditPickOverHTTP(t *testing.T) {
	h := newTestRouter(t, nil)
	adminToken := login(t, h, testAdminEmail, testAdminPassword)
	bobToken := registerAndLogin(t, h, "bob@pool.test")
	eveToken := registerAndLogin(t, h, "eve@pool.test")

	_, resp := call(t, h, http.MethodPost, "/v1/entries", bobToken, map[string]string{"nickname": "Bob"})
	entryID, _ := resp.object(t)["id"].(string)
	call(t, h, http.MethodPost, "/v1/entries/"+entryID+"/verify", adminToken, nil)

	_, resp = call(t, h, http.MethodPost, "/v1/picks", bobToken, map[string]any{
		"entryId": entryID, "week": 1, "teamName": "Lions",
	})
	pickID, _ := resp.object(t)["id"].(string)
	if pickID == "" {
		t.Fatalf("expected pick id")
	}

	status, resp := call(t, h, http.MethodPut, "/v1/picks/"+pickID, eveToken, map[string]any{"teamName": "Rams"})
	if status != http.StatusForbidden {
		t.Fatalf("expected another player's edit to be forbidden, got %d %q", status, resp.reason())
	}

	status, resp = call(t, h, http.MethodPut, "/v1/picks/"+pickID, bobToken, map[string]any{"teamName": "Rams"})
	if status != http.StatusOK {
		t.Fatalf("edit pick: status %d reason %q", status, resp.reason())
	}
	edited := resp.object(t)
	if edited["teamName"] != "Rams" || edited["week"] != float64(1) {
		t.Fatalf("unexpected edited pick: %+v", edited)
	}

	status, resp = call(t, h, http.MethodPut, "/v1/picks/missing", bobToken, map[string]any{"teamName": "Rams"})
	if status != http.StatusNotFound {
		t.Fatalf("expected not found for missing pick, got %d %q", status, resp.reason())
	}
}

func TestRequestValidationOverHTTP(t *testing.T) {
	h := newTestRouter(t, nil)
	token := registerAndLogin(t, h, "carol@pool.test")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantReason string
	}{
		{
			name:       "missing token",
			method:     http.MethodPost,
			path:       "/v1/entries",
			body:       map[string]string{"nickname": "x"},
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthorized",
		},
		{
			name:       "garbage token",
			method:     http.MethodGet,
			path:       "/v1/entries/me",
			token:      "not-a-jwt",
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthorized",
		},
		{
			name:       "unknown field",
			method:     http.MethodPost,
			path:       "/v1/entries",
			token:      token,
			body:       map[string]string{"nickname": "x", "color": "red"},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidInput",
		},
		{
			name:       "blank nickname",
			method:     http.MethodPost,
			path:       "/v1/entries",
			token:      token,
			body:       map[string]string{"nickname": "   "},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidNickname",
		},
		{
			name:       "negative week",
			method:     http.MethodGet,
			path:       "/v1/schedule/weeks/-2",
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidWeek",
		},
		{
			name:       "player listing all entries",
			method:     http.MethodGet,
			path:       "/v1/entries",
			token:      token,
			wantStatus: http.StatusForbidden,
			wantReason: "forbidden",
		},
		{
			name:       "duplicate registration",
			method:     http.MethodPost,
			path:       "/v1/auth/register",
			body:       map[string]string{"email": "carol@pool.test", "password": "password123"},
			wantStatus: http.StatusConflict,
			wantReason: "emailTaken",
		},
		{
			name:       "wrong password",
			method:     http.MethodPost,
			path:       "/v1/auth/login",
			body:       map[string]string{"email": "carol@pool.test", "password": "wrong-password"},
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthorized",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := call(t, h, tc.method, tc.path, tc.token, tc.body)
			if status != tc.wantStatus || resp.reason() != tc.wantReason {
				t.Fatalf("expected %d %q, got %d %q", tc.wantStatus, tc.wantReason, status, resp.reason())
			}
		})
	}
}

func TestBlankNicknameRejectedByValidator(t *testing.T) {
	h := newTestRouter(t, nil)
	token := registerAndLogin(t, h, "dave@pool.test")

	status, resp := call(t, h, http.MethodPost, "/v1/entries", token, map[string]string{"nickname": ""})
	if status != http.StatusBadRequest || resp.reason() != "invalidInput" {
		t.Fatalf("expected invalidInput for empty nickname, got %d %q", status, resp.reason())
	}
}

func TestPublicEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)

	status, resp := call(t, h, http.MethodGet, "/v1/teams", "", nil)
	if status != http.StatusOK || len(resp.list(t)) != 32 {
		t.Fatalf("expected 32 seeded teams, got %d", status)
	}

	status, resp = call(t, h, http.MethodGet, "/v1/schedule/weeks/1", "", nil)
	if status != http.StatusOK {
		t.Fatalf("schedule week: status %d", status)
	}
	week := resp.object(t)
	if locked, _ := week["locked"].(bool); locked {
		t.Fatalf("expected week 1 to be open")
	}

	status, _ = call(t, h, http.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("healthz: status %d", status)
	}
}

func TestLoginRateLimit(t *testing.T) {
	h := newTestRouter(t, NewClientRateLimiter(0.001, 1))

	body := map[string]string{"email": "nobody@pool.test", "password": "password123"}
	status, _ := call(t, h, http.MethodPost, "/v1/auth/login", "", body)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected first attempt to reach the service, got %d", status)
	}

	status, resp := call(t, h, http.MethodPost, "/v1/auth/login", "", body)
	if status != http.StatusTooManyRequests || resp.reason() != "rateLimited" {
		t.Fatalf("expected rateLimited, got %d %q", status, resp.reason())
	}
}
