package dailybook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Handler exposes the daily bookkeeping HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the dailybook handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the dailybook routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/daily-account", h.summary)
	r.Route("/daily-balances", func(r chi.Router) {
		r.Post("/", h.setOpeningBalance)
		r.Get("/{date}", h.getBalance)
		r.Put("/{date}/close", h.closeDay)
	})
	r.Route("/daily-inventory", func(r chi.Router) {
		r.Post("/", h.createSnapshot)
		r.Get("/{date}", h.listSnapshots)
		r.Put("/{date}/close", h.closeSnapshot)
	})
	r.Post("/daily/reset", h.reset)
}

type balanceResponse struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"`
	OpeningBalance string    `json:"openingBalance"`
	ClosingBalance *string   `json:"closingBalance,omitempty"`
	IsClosed       bool      `json:"isClosed"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toBalanceResponse(bal DailyBalance) balanceResponse {
	resp := balanceResponse{
		ID:             bal.ID,
		Date:           bal.Day.Format(shared.DayFormat),
		OpeningBalance: bal.OpeningBalance.StringFixed(2),
		IsClosed:       bal.IsClosed,
		CreatedAt:      bal.CreatedAt,
		UpdatedAt:      bal.UpdatedAt,
	}
	if bal.ClosingBalance != nil {
		closing := bal.ClosingBalance.StringFixed(2)
		resp.ClosingBalance = &closing
	}
	return resp
}

type snapshotResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	ItemID       string    `json:"itemId"`
	OpeningStock int       `json:"openingStock"`
	ClosingStock *int      `json:"closingStock,omitempty"`
	IsClosed     bool      `json:"isClosed"`
	Variance     *int      `json:"variance,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toSnapshotResponse(snap InventorySnapshot) snapshotResponse {
	resp := snapshotResponse{
		ID:           snap.ID,
		Date:         snap.Day.Format(shared.DayFormat),
		ItemID:       snap.ItemID,
		OpeningStock: snap.OpeningStock,
		ClosingStock: snap.ClosingStock,
		IsClosed:     snap.IsClosed,
		CreatedAt:    snap.CreatedAt,
		UpdatedAt:    snap.UpdatedAt,
	}
	if variance, ok := snap.Variance(); ok {
		resp.Variance = &variance
	}
	return resp
}

type openingBalancePayload struct {
	Date           string `json:"date"`
	OpeningBalance string `json:"openingBalance" validate:"required"`
}

type closeBalancePayload struct {
	ClosingBalance string `json:"closingBalance" validate:"required"`
}

type createSnapshotPayload struct {
	Date         string `json:"date"`
	ItemID       string `json:"itemId" validate:"required"`
	OpeningStock *int   `json:"openingStock" validate:"required"`
}

type closeSnapshotPayload struct {
	ItemID       string `json:"itemId" validate:"required"`
	ClosingStock *int   `json:"closingStock" validate:"required"`
}

type resetPayload struct {
	Date string `json:"date"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.service.GetBalance(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBalanceResponse(bal))
}

func (h *Handler) setOpeningBalance(w http.ResponseWriter, r *http.Request) {
	var payload openingBalancePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	amount, err := decimal.NewFromString(payload.OpeningBalance)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "openingBalance must be a decimal string")
		return
	}
	bal, err := h.service.SetOpeningBalance(r.Context(), payload.Date, amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBalanceResponse(bal))
}

func (h *Handler) closeDay(w http.ResponseWriter, r *http.Request) {
	var payload closeBalancePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	closing, err := decimal.NewFromString(payload.ClosingBalance)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "closingBalance must be a decimal string")
		return
	}
	bal, err := h.service.CloseDay(r.Context(), chi.URLParam(r, "date"), closing)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBalanceResponse(bal))
}

func (h *Handler) listSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.service.ListSnapshots(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotResponse(snap))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createSnapshot(w http.ResponseWriter, r *http.Request) {
	var payload createSnapshotPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, err := h.service.CreateSnapshot(r.Context(), payload.Date, payload.ItemID, *payload.OpeningStock)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSnapshotResponse(snap))
}

func (h *Handler) closeSnapshot(w http.ResponseWriter, r *http.Request) {
	var payload closeSnapshotPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	snap, err := h.service.CloseSnapshot(r.Context(), chi.URLParam(r, "date"), payload.ItemID, *payload.ClosingStock)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	// The body is optional; an absent date resets today.
	var payload resetPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	result, err := h.service.Reset(r.Context(), payload.Date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBalanceNotFound), errors.Is(err, ErrSnapshotNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDayClosed), errors.Is(err, ErrSnapshotClosed), errors.Is(err, ErrSnapshotExists):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("dailybook request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
