package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, limiter *ClientRateLimiter) {
	mux.Handle("POST /v1/auth/register", RateLimit(limiter, http.HandlerFunc(handler.Register)))
	mux.Handle("POST /v1/auth/login", RateLimit(limiter, http.HandlerFunc(handler.Login)))
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/results", handler.ListResults)
	mux.HandleFunc("GET /v1/schedule/weeks/{week}", handler.ScheduleWeek)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, auth Authenticator) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(auth, fn)
	}

	mux.Handle("POST /v1/teams", guard(handler.CreateTeam))
	mux.Handle("PUT /v1/teams/{teamID}", guard(handler.RenameTeam))
	mux.Handle("DELETE /v1/teams/{teamID}", guard(handler.DeleteTeam))

	mux.Handle("POST /v1/entries", guard(handler.CreateEntry))
	mux.Handle("GET /v1/entries", guard(handler.ListEntries))
	mux.Handle("GET /v1/entries/me", guard(handler.ListMyEntries))
	mux.Handle("POST /v1/entries/{entryID}/verify", guard(handler.VerifyEntry))
	mux.Handle("GET /v1/entries/{entryID}/status", guard(handler.EntryStatus))

	mux.Handle("POST /v1/picks", guard(handler.SubmitPick))
	mux.Handle("GET /v1/picks", guard(handler.ListPicks))
	mux.Handle("GET /v1/picks/me", guard(handler.ListMyPicks))
	mux.Handle("PUT /v1/picks/{pickID}", guard(handler.EditPick))

	mux.Handle("POST /v1/results", guard(handler.RecordResult))
	mux.Handle("GET /v1/standings", guard(handler.ListStandings))

	mux.Handle("GET /v1/admin/users", guard(handler.ListUsers))
	mux.Handle("PUT /v1/admin/users/role", guard(handler.ChangeRole))
}
