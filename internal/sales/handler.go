package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
	"github.com/lodgebooks/lodgebooks/internal/shared"
)

// Handler exposes the sales HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the sales handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the sales routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
	})
}

type salePayload struct {
	ItemID       string `json:"itemId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice    string `json:"unitPrice" validate:"required"`
	CustomerName string `json:"customerName"`
	Date         string `json:"date"`
}

type saleResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"itemId"`
	ItemName     string    `json:"itemName,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPrice    string    `json:"unitPrice"`
	Total        string    `json:"total"`
	CustomerName string    `json:"customerName,omitempty"`
	Date         time.Time `json:"date"`
}

func toSaleResponse(sale Sale, itemName string) saleResponse {
	return saleResponse{
		ID:           sale.ID,
		ItemID:       sale.ItemID,
		ItemName:     itemName,
		Quantity:     sale.Quantity,
		UnitPrice:    sale.UnitPrice.StringFixed(2),
		Total:        sale.Total.StringFixed(2),
		CustomerName: sale.CustomerName,
		Date:         sale.Date,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListSales(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]saleResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, toSaleResponse(line.Sale, line.Item.Name))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload salePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	unitPrice, err := decimal.NewFromString(payload.UnitPrice)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unitPrice must be a decimal string")
		return
	}
	in := CreateSaleInput{
		ItemID:       payload.ItemID,
		Quantity:     payload.Quantity,
		UnitPrice:    unitPrice,
		CustomerName: payload.CustomerName,
	}
	if payload.Date != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Date)
		if err != nil {
			parsed, err = time.Parse(shared.DayFormat, payload.Date)
		}
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be RFC3339 or "+shared.DayFormat)
			return
		}
		in.Date = parsed
	}
	sale, err := h.service.CreateSale(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSaleResponse(sale, ""))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("sales request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
