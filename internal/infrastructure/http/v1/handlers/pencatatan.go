package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rzkdmln/sicakap/internal/domain/pencatatan"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/dto"
)

// ActiveDater supplies the allocator's active date for the statistics view.
type ActiveDater interface {
	ActiveDate() string
}

// PencatatanHandler serves the service-request record endpoints.
type PencatatanHandler struct {
	*BaseHandler
	service *pencatatan.Service
	dates   ActiveDater
}

// NewPencatatanHandler creates the handler.
func NewPencatatanHandler(base *BaseHandler, service *pencatatan.Service, dates ActiveDater) *PencatatanHandler {
	return &PencatatanHandler{BaseHandler: base, service: service, dates: dates}
}

// Create handles POST /pencatatan. Persisting the record also confirms the
// session's reservation of reg_number.
func (h *PencatatanHandler) Create(c *gin.Context) {
	var req dto.CreatePencatatanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, id)
}

// Get handles GET /pencatatan/:id.
func (h *PencatatanHandler) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Update handles PUT /pencatatan/:id.
func (h *PencatatanHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdatePencatatanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	rec.ServiceCode = req.ServiceCode
	rec.NIK = req.NIK
	rec.Name = req.Name
	rec.PhoneNumber = req.PhoneNumber
	rec.Email = req.Email
	rec.NoSKPWNI = req.NoSKPWNI
	rec.NoSKDWNI = req.NoSKDWNI
	rec.NoKK = req.NoKK
	rec.NoSKBWNI = req.NoSKBWNI
	rec.Status = req.Status
	rec.Notes = req.Notes

	if err := h.service.Update(c.Request.Context(), rec); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Delete handles DELETE /pencatatan/:id.
func (h *PencatatanHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /pencatatan.
func (h *PencatatanHandler) List(c *gin.Context) {
	var q dto.ListPencatatanQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := q.ToFilter().Normalized()
	recs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:   recs,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
}

// Statistik handles GET /pencatatan/statistik.
func (h *PencatatanHandler) Statistik(c *gin.Context) {
	stats, err := h.service.Statistik(c.Request.Context(), h.dates.ActiveDate())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// DateStatistics handles GET /pencatatan/date-statistics.
func (h *PencatatanHandler) DateStatistics(c *gin.Context) {
	stats, err := h.service.DateStatistics(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}
