package company

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lodgebooks/lodgebooks/internal/platform/httpx"
)

// Handler exposes the company profile HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the company handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the company routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/company-info", func(r chi.Router) {
		r.Get("/", h.get)
		r.Post("/", h.save)
	})
}

type infoPayload struct {
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	GSTNumber string `json:"gstNumber"`
	Logo      string `json:"logo"`
}

type infoResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	GSTNumber string    `json:"gstNumber,omitempty"`
	Logo      string    `json:"logo,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toInfoResponse(info Info) infoResponse {
	return infoResponse{
		ID:        info.ID,
		Name:      info.Name,
		Address:   info.Address,
		Phone:     info.Phone,
		Email:     info.Email,
		GSTNumber: info.GSTNumber,
		Logo:      info.Logo,
		UpdatedAt: info.UpdatedAt,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInfoResponse(info))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var payload infoPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	info, err := h.service.Save(r.Context(), UpsertInput{
		Name:      payload.Name,
		Address:   payload.Address,
		Phone:     payload.Phone,
		Email:     payload.Email,
		GSTNumber: payload.GSTNumber,
		Logo:      payload.Logo,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInfoResponse(info))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("company request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
