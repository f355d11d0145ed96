package handler

import (
	"errors"
	"net/http"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/Renan360Brasil/melody-academy-control/internal/service"
	"github.com/Renan360Brasil/melody-academy-control/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnrollmentHandler handles enrollment endpoints.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	paymentService    *service.PaymentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService, paymentService *service.PaymentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, paymentService: paymentService}
}

// List godoc
// GET /api/v1/enrollments?search=
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.enrollmentService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	response.Success(c, http.StatusOK, enrollments)
}

// Get godoc
// GET /api/v1/enrollments/:id
// Returns the enrollment together with its installment schedule.
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.enrollmentService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	payments, err := h.paymentService.ListByEnrollment(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"enrollment": enrollment,
		"payments":   payments,
	})
}

// Create godoc
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req model.CreateEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, enrollment)
}

// Cancel godoc
// POST /api/v1/enrollments/:id/cancel
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.enrollmentService.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotActive) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
