package expenses

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
)

// Handler exposes the expenses HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the expenses handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the expenses routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
}

type expensePayload struct {
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

type expenseResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

func toExpenseResponse(exp Expense) expenseResponse {
	return expenseResponse{
		ID:          exp.ID,
		Description: exp.Description,
		Amount:      exp.Amount.StringFixed(2),
		Category:    exp.Category,
		Date:        exp.Date,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListExpenses(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]expenseResponse, 0, len(items))
	for _, exp := range items {
		out = append(out, toExpenseResponse(exp))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal string")
		return
	}
	in := CreateExpenseInput{
		Description: payload.Description,
		Amount:      amount,
		Category:    payload.Category,
	}
	if payload.Date != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be RFC3339")
			return
		}
		in.Date = parsed
	}
	exp, err := h.service.CreateExpense(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toExpenseResponse(exp))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExpenseNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("expenses request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
