// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/middleware"
	"github.com/abdur28/boarding-sky-sub000/models"
	"github.com/abdur28/boarding-sky-sub000/services"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// GetBookings: POST /api/actions/get-booking
func (bc *BookingController) GetBookings(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.IsPrivileged() && actor.Email == "" {
		utils.JSONError(c, http.StatusUnauthorized, "missing identity")
		return
	}

	filter, err := filterFrom(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := bc.BookingSvc.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// UpdateBooking: POST /api/actions/update-booking
//
// Owners send {_id, action: cancel|request-refund}, or the status the action
// leads to. Privileged actors send {_id, status?, paymentStatus?, isRefundable?}.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	values, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	actor := middleware.ActorFrom(c)
	id := values.ID()
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, "_id is required")
		return
	}

	raw := values.Action()
	if raw == "" && !actor.IsPrivileged() {
		raw = ownerActionFor(values.Get("status"))
	}
	if raw != "" && raw != string(services.ActionEdit) {
		action, ok := services.ParseBookingAction(raw)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "unknown action "+strconv.Quote(raw))
			return
		}
		view, err := bc.BookingSvc.ApplyAction(c.Request.Context(), actor, id, action)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, view)
		return
	}

	upd := services.BookingUpdate{
		Status:        values.Get("status"),
		PaymentStatus: values.Get("paymentStatus"),
	}
	if raw := strings.TrimSpace(values.Get("isRefundable")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "isRefundable must be true or false")
			return
		}
		upd.IsRefundable = &b
	}

	view, err := bc.BookingSvc.Update(c.Request.Context(), actor, id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// ownerActionFor maps an owner's requested status onto the action reaching it.
func ownerActionFor(status string) string {
	st, ok := models.ParseBookingStatus(status)
	if !ok {
		return ""
	}
	switch st {
	case models.BookingCancelled:
		return string(services.ActionCancel)
	case models.BookingRefundRequested:
		return string(services.ActionRequestRefund)
	}
	return ""
}
