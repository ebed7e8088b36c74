package httpapi

import "net/http"

func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordResult")
	defer span.End()

	var req recordResultRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	actor := actorFromContext(ctx)
	item, err := h.resultService.RecordResult(ctx, actor, req.Week, req.TeamName, req.Outcome)
	if err != nil {
		h.logger.WarnContext(ctx, "record result failed",
			"actor", actor.Email,
			"week", req.Week,
			"team", req.TeamName,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultToDTO(item))
}

// ListResults returns every recorded result, or one week's with ?week=.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListResults")
	defer span.End()

	week, err := parseWeek(r.URL.Query().Get("week"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.resultService.ListResults(ctx, week)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultsToDTO(items))
}
