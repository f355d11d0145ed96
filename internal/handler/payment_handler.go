package handler

import (
	"errors"
	"net/http"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/Renan360Brasil/melody-academy-control/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentHandler handles the financial endpoints.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List godoc
// GET /api/v1/payments?search=&status=
func (h *PaymentHandler) List(c *gin.Context) {
	var status *model.PaymentStatus
	if raw := c.Query("status"); raw != "" {
		s := model.PaymentStatus(raw)
		status = &s
	}

	payments, err := h.paymentService.List(c.Request.Context(), c.Query("search"), status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	response.Success(c, http.StatusOK, payments)
}

// Summary godoc
// GET /api/v1/payments/summary
func (h *PaymentHandler) Summary(c *gin.Context) {
	summary, err := h.paymentService.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// MarkPaid godoc
// POST /api/v1/payments/:id/pay
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentSettled):
			response.Fail(c, http.StatusConflict, response.ErrPaymentSettled)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, payment)
}
