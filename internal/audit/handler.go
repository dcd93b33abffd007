package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Handler exposes the read-only transaction log API.
type Handler struct {
	recorder *Recorder
	logger   *slog.Logger
	loc      *time.Location
}

// NewHandler wires the audit handler.
func NewHandler(recorder *Recorder, logger *slog.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{recorder: recorder, logger: logger, loc: loc}
}

// MountRoutes attaches the transaction log routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/transaction-logs", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var window *shared.DayWindow
	if day := r.URL.Query().Get("date"); day != "" {
		parsed, err := shared.WindowForDay(day, h.loc)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		window = &parsed
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.recorder.List(r.Context(), window, limit)
	if err != nil {
		h.logger.Error("transaction log query failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}
