package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEntry")
	defer span.End()

	var req createEntryRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	actor := actorFromContext(ctx)
	item, err := h.entryService.CreateEntry(ctx, actor, req.OwnerEmail, req.Nickname)
	if err != nil {
		h.logger.WarnContext(ctx, "create entry failed", "actor", actor.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(item))
}

// ListEntries lists every entry, or one user's entries when ?email= is present.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEntries")
	defer span.End()

	actor := actorFromContext(ctx)
	email := strings.TrimSpace(r.URL.Query().Get("email"))

	if email != "" {
		items, err := h.entryService.ListEntriesFor(ctx, actor, email)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, entriesToDTO(items))
		return
	}

	items, err := h.entryService.ListAll(ctx, actor)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(items))
}

func (h *Handler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyEntries")
	defer span.End()

	actor := actorFromContext(ctx)
	items, err := h.entryService.ListEntriesFor(ctx, actor, actor.Email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(items))
}

func (h *Handler) VerifyEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyEntry")
	defer span.End()

	actor := actorFromContext(ctx)
	entryID := r.PathValue("entryID")
	item, err := h.entryService.VerifyEntry(ctx, actor, entryID)
	if err != nil {
		h.logger.WarnContext(ctx, "verify entry failed", "actor", actor.Email, "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(item))
}

func (h *Handler) EntryStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EntryStatus")
	defer span.End()

	status, err := h.resultService.EliminationStatus(ctx, actorFromContext(ctx), r.PathValue("entryID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusToDTO(status))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	items, err := h.standingService.ListStandings(ctx, actorFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(items))
}
