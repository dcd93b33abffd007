package payments

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

// Handler exposes the online payments HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the payments handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the payment routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/online-payments", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
}

type paymentPayload struct {
	Amount         string `json:"amount" validate:"required"`
	Method         string `json:"method" validate:"required,oneof=upi card netbanking wallet"`
	TransactionRef string `json:"transactionRef"`
	Date           string `json:"date"`
}

type paymentResponse struct {
	ID             string    `json:"id"`
	Amount         string    `json:"amount"`
	Method         string    `json:"method"`
	TransactionRef string    `json:"transactionRef,omitempty"`
	Date           time.Time `json:"date"`
}

func toPaymentResponse(p OnlinePayment) paymentResponse {
	return paymentResponse{
		ID:             p.ID,
		Amount:         p.Amount.StringFixed(2),
		Method:         string(p.Method),
		TransactionRef: p.TransactionRef,
		Date:           p.Date,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPayments(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPaymentResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload paymentPayload
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
	in := CreatePaymentInput{
		Amount:         amount,
		Method:         Method(payload.Method),
		TransactionRef: payload.TransactionRef,
	}
	if payload.Date != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be RFC3339")
			return
		}
		in.Date = parsed
	}
	p, err := h.service.CreatePayment(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("payments request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
