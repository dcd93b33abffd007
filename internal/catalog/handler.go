package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
)

// Handler exposes the catalog HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the catalog handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the catalog routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.listItems)
		r.Post("/", h.createItem)
		r.Get("/{id}", h.getItem)
		r.Put("/{id}", h.updateItem)
		r.Delete("/{id}", h.deleteItem)
	})
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listInventory)
		r.Get("/{itemId}", h.getInventory)
		r.Put("/{itemId}", h.setStock)
	})
}

type itemPayload struct {
	Name         string `json:"name" validate:"required"`
	PricePerUnit string `json:"pricePerUnit" validate:"required"`
	Category     string `json:"category"`
}

type updateItemPayload struct {
	Name         *string `json:"name"`
	PricePerUnit *string `json:"pricePerUnit"`
	Category     *string `json:"category"`
}

type stockPayload struct {
	CurrentStock *int `json:"currentStock" validate:"required"`
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponses(items))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	price, err := decimal.NewFromString(payload.PricePerUnit)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "pricePerUnit must be a decimal string")
		return
	}
	item, err := h.service.CreateItem(r.Context(), CreateItemInput{
		Name:         payload.Name,
		PricePerUnit: price,
		Category:     payload.Category,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var payload updateItemPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	in := UpdateItemInput{Name: payload.Name, Category: payload.Category}
	if payload.PricePerUnit != nil {
		price, err := decimal.NewFromString(*payload.PricePerUnit)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "pricePerUnit must be a decimal string")
			return
		}
		in.PricePerUnit = &price
	}
	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListInventory(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInventoryLineResponses(lines))
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetInventoryByItem(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInventoryResponse(rec))
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	var payload stockPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rec, err := h.service.SetStock(r.Context(), chi.URLParam(r, "itemId"), *payload.CurrentStock)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInventoryResponse(rec))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrInventoryNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrItemInUse):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrInvalidStock), errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("catalog request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
