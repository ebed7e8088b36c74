package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	var req submitPickRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	actor := actorFromContext(ctx)
	item, err := h.pickService.SubmitPick(ctx, actor, req.EntryID, req.Week, req.TeamName)
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick rejected",
			"actor", actor.Email,
			"entry_id", req.EntryID,
			"week", req.Week,
			"team", req.TeamName,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickToDTO(item))
}

func (h *Handler) EditPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditPick")
	defer span.End()

	var req editPickRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	actor := actorFromContext(ctx)
	pickID := r.PathValue("pickID")
	item, err := h.pickService.EditPick(ctx, actor, pickID, req.Week, req.TeamName)
	if err != nil {
		h.logger.WarnContext(ctx, "edit pick rejected",
			"actor", actor.Email,
			"pick_id", pickID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(item))
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
	defer span.End()

	actor := actorFromContext(ctx)
	items, err := h.pickService.ListPicksFor(ctx, actor, actor.Email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(items))
}

// ListPicks filters by ?entryId= when present, otherwise by ?email=.
func (h *Handler) ListPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPicks")
	defer span.End()

	actor := actorFromContext(ctx)
	query := r.URL.Query()

	if entryID := strings.TrimSpace(query.Get("entryId")); entryID != "" {
		items, err := h.pickService.ListPicksForEntry(ctx, actor, entryID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, picksToDTO(items))
		return
	}

	email := strings.TrimSpace(query.Get("email"))
	if email == "" {
		email = actor.Email
	}
	items, err := h.pickService.ListPicksFor(ctx, actor, email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(items))
}
