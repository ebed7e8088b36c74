package httpapi

import "net/http"

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	items, err := h.teamService.ListTeams(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTO(items))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	var req teamRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	actor := actorFromContext(ctx)
	item, err := h.teamService.CreateTeam(ctx, actor, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "actor", actor.Email, "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenameTeam")
	defer span.End()

	var req teamRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	actor := actorFromContext(ctx)
	teamID := r.PathValue("teamID")
	item, err := h.teamService.RenameTeam(ctx, actor, teamID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "rename team failed", "actor", actor.Email, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	actor := actorFromContext(ctx)
	teamID := r.PathValue("teamID")
	if err := h.teamService.DeleteTeam(ctx, actor, teamID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "actor", actor.Email, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": teamID})
}
