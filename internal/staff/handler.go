package staff

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

// Handler exposes the staff HTTP API.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler wires the staff handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches the staff routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.listEmployees)
		r.Post("/", h.createEmployee)
		r.Get("/{id}", h.getEmployee)
	})
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.listAttendance)
		r.Put("/{employeeId}", h.markAttendance)
	})
	r.Route("/salary-payments", func(r chi.Router) {
		r.Get("/", h.listSalaryPayments)
		r.Post("/", h.paySalary)
	})
}

type employeePayload struct {
	Name     string `json:"name" validate:"required"`
	Position string `json:"position"`
	DailyPay string `json:"dailyPay" validate:"required"`
}

type employeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position,omitempty"`
	DailyPay  string    `json:"dailyPay"`
	CreatedAt time.Time `json:"createdAt"`
}

func toEmployeeResponse(e Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Position:  e.Position,
		DailyPay:  e.DailyPay.StringFixed(2),
		CreatedAt: e.CreatedAt,
	}
}

type attendancePayload struct {
	Date    string `json:"date"`
	Present *bool  `json:"present" validate:"required"`
}

type attendanceResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employeeId"`
	Date       string            `json:"date"`
	Present    bool              `json:"present"`
	Employee   *employeeResponse `json:"employee,omitempty"`
}

type salaryPayload struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	Month      string `json:"month" validate:"required"`
	Year       int    `json:"year" validate:"required"`
	Date       string `json:"date"`
}

type salaryResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Amount       string    `json:"amount"`
	Month        string    `json:"month"`
	Year         int       `json:"year"`
	Date         time.Time `json:"date"`
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListEmployees(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]employeeResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEmployeeResponse(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEmployeeResponse(e))
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	pay, err := decimal.NewFromString(payload.DailyPay)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "dailyPay must be a decimal string")
		return
	}
	e, err := h.service.CreateEmployee(r.Context(), CreateEmployeeInput{
		Name:     payload.Name,
		Position: payload.Position,
		DailyPay: pay,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEmployeeResponse(e))
}

func (h *Handler) listAttendance(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListAttendance(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]attendanceResponse, 0, len(lines))
	for _, line := range lines {
		emp := toEmployeeResponse(line.Employee)
		out = append(out, attendanceResponse{
			ID:         line.ID,
			EmployeeID: line.EmployeeID,
			Date:       line.Day.Format(shared.DayFormat),
			Present:    line.Present,
			Employee:   &emp,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) markAttendance(w http.ResponseWriter, r *http.Request) {
	var payload attendancePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	att, err := h.service.MarkAttendance(r.Context(), chi.URLParam(r, "employeeId"), payload.Date, *payload.Present)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, attendanceResponse{
		ID:         att.ID,
		EmployeeID: att.EmployeeID,
		Date:       att.Day.Format(shared.DayFormat),
		Present:    att.Present,
	})
}

func (h *Handler) listSalaryPayments(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListSalaryPayments(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]salaryResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, salaryResponse{
			ID:           line.ID,
			EmployeeID:   line.EmployeeID,
			EmployeeName: line.Employee.Name,
			Amount:       line.Amount.StringFixed(2),
			Month:        line.Month,
			Year:         line.Year,
			Date:         line.Date,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) paySalary(w http.ResponseWriter, r *http.Request) {
	var payload salaryPayload
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
	in := CreateSalaryPaymentInput{
		EmployeeID: payload.EmployeeID,
		Amount:     amount,
		Month:      payload.Month,
		Year:       payload.Year,
	}
	if payload.Date != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be RFC3339")
			return
		}
		in.Date = parsed
	}
	p, err := h.service.PaySalary(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, salaryResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Amount:     p.Amount.StringFixed(2),
		Month:      p.Month,
		Year:       p.Year,
		Date:       p.Date,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmployeeNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("staff request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
