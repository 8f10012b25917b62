package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rzkdmln/sicakap/internal/domain/numbering"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/dto"
)

// NumberingHandler serves the registration-number allocator endpoints.
type NumberingHandler struct {
	*BaseHandler
	service *numbering.Service
}

// NewNumberingHandler creates the handler.
func NewNumberingHandler(base *BaseHandler, service *numbering.Service) *NumberingHandler {
	return &NumberingHandler{BaseHandler: base, service: service}
}

// Book handles POST /book-reg-number. Idempotent per session: a repeat call
// returns the session's existing hold with status "existing".
func (h *NumberingHandler) Book(c *gin.Context) {
	alloc, err := h.service.Allocate(c.Request.Context(), h.SessionID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BookNumberResponse{
		RegNumber: alloc.Number,
		Status:    string(alloc.Status),
	})
}

// Release handles POST /release-reg-number. Always 200: releasing a number
// you no longer hold is not an error.
func (h *NumberingHandler) Release(c *gin.Context) {
	var req dto.NumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.service.Release(c.Request.Context(), h.SessionID(c), req.RegNumber)
	h.Success(c, "released")
}

// Confirm handles POST /confirm-reg-number.
func (h *NumberingHandler) Confirm(c *gin.Context) {
	var req dto.NumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.service.Confirm(c.Request.Context(), h.SessionID(c), req.RegNumber)
	h.Success(c, "confirmed")
}

// SwitchDate handles POST /switch-date.
func (h *NumberingHandler) SwitchDate(c *gin.Context) {
	var req dto.SwitchDateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sw, err := h.service.SwitchDate(c.Request.Context(), req.Date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SwitchDateResponse{
		CurrentDate:    sw.CurrentDate,
		PreviousDate:   sw.PreviousDate,
		RegNumberReset: true,
	})
}

// ResetDay handles POST /reset-daily-numbers.
func (h *NumberingHandler) ResetDay(c *gin.Context) {
	date, cleared := h.service.ResetDay(c.Request.Context())
	h.OK(c, dto.ResetDayResponse{ResetDate: date, ClearedBookings: cleared})
}

// ResetAll handles POST /reset-numbers.
func (h *NumberingHandler) ResetAll(c *gin.Context) {
	h.service.ResetAll(c.Request.Context())
	h.Success(c, "all reservations reset")
}

// GetSettings handles GET /settings.
func (h *NumberingHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSettings(settings))
}

// UpdateSettings handles POST /settings.
func (h *NumberingHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetRange(c.Request.Context(), req.StartNumber, req.EndNumber); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "number range updated")
}
