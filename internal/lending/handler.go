package lending

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

// Handler exposes the lending HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the lending handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the lending routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/borrowers", func(r chi.Router) {
		r.Get("/", h.listBorrowers)
		r.Post("/", h.createBorrower)
		r.Get("/{id}", h.getBorrower)
		r.Put("/{id}/repay", h.repay)
	})
	r.Route("/depositors", func(r chi.Router) {
		r.Get("/", h.listDepositors)
		r.Post("/", h.createDepositor)
		r.Get("/{id}", h.getDepositor)
		r.Put("/{id}/return", h.returnDeposit)
		r.Delete("/{id}", h.deleteDepositor)
	})
}

type borrowerPayload struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone"`
	AmountBorrowed string `json:"amountBorrowed" validate:"required"`
}

type amountPayload struct {
	Amount string `json:"amount" validate:"required"`
}

type borrowerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	AmountBorrowed string    `json:"amountBorrowed"`
	AmountRepaid   string    `json:"amountRepaid"`
	Outstanding    string    `json:"outstanding"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toBorrowerResponse(b Borrower) borrowerResponse {
	return borrowerResponse{
		ID:             b.ID,
		Name:           b.Name,
		Phone:          b.Phone,
		AmountBorrowed: b.AmountBorrowed.StringFixed(2),
		AmountRepaid:   b.AmountRepaid.StringFixed(2),
		Outstanding:    b.Outstanding().StringFixed(2),
		CreatedAt:      b.CreatedAt,
	}
}

type depositorPayload struct {
	Name    string `json:"name" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
	Purpose string `json:"purpose"`
}

type depositorResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Amount         string    `json:"amount"`
	Purpose        string    `json:"purpose,omitempty"`
	Returned       bool      `json:"returned"`
	ReturnedAmount string    `json:"returnedAmount"`
	Date           time.Time `json:"date"`
}

func toDepositorResponse(d Depositor) depositorResponse {
	return depositorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Amount:         d.Amount.StringFixed(2),
		Purpose:        d.Purpose,
		Returned:       d.Returned,
		ReturnedAmount: d.ReturnedAmount.StringFixed(2),
		Date:           d.Date,
	}
}

func (h *Handler) listBorrowers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListBorrowers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]borrowerResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toBorrowerResponse(b))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getBorrower(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBorrower(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBorrowerResponse(b))
}

func (h *Handler) createBorrower(w http.ResponseWriter, r *http.Request) {
	var payload borrowerPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	amount, err := decimal.NewFromString(payload.AmountBorrowed)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amountBorrowed must be a decimal string")
		return
	}
	b, err := h.service.CreateBorrower(r.Context(), CreateBorrowerInput{
		Name:           payload.Name,
		Phone:          payload.Phone,
		AmountBorrowed: amount,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBorrowerResponse(b))
}

func (h *Handler) repay(w http.ResponseWriter, r *http.Request) {
	var payload amountPayload
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
	b, err := h.service.RecordRepayment(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBorrowerResponse(b))
}

func (h *Handler) listDepositors(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDepositors(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]depositorResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDepositorResponse(d))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getDepositor(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDepositor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDepositorResponse(d))
}

func (h *Handler) createDepositor(w http.ResponseWriter, r *http.Request) {
	var payload depositorPayload
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
	d, err := h.service.CreateDepositor(r.Context(), CreateDepositorInput{
		Name:    payload.Name,
		Amount:  amount,
		Purpose: payload.Purpose,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toDepositorResponse(d))
}

func (h *Handler) returnDeposit(w http.ResponseWriter, r *http.Request) {
	var payload amountPayload
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
	d, err := h.service.ReturnDeposit(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDepositorResponse(d))
}

func (h *Handler) deleteDepositor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDepositor(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBorrowerNotFound), errors.Is(err, ErrDepositorNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("lending request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
