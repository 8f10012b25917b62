package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rzkdmln/sicakap/internal/domain/redaksi"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/dto"
)

// RedaksiHandler serves the text-template endpoints.
type RedaksiHandler struct {
	*BaseHandler
	service *redaksi.Service
}

// NewRedaksiHandler creates the handler.
func NewRedaksiHandler(base *BaseHandler, service *redaksi.Service) *RedaksiHandler {
	return &RedaksiHandler{BaseHandler: base, service: service}
}

// Create handles POST /redaksi.
func (h *RedaksiHandler) Create(c *gin.Context) {
	var req dto.RedaksiRequest
	if !h.BindJSON(c, &req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), &redaksi.Redaksi{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, id)
}

// Get handles GET /redaksi/:id.
func (h *RedaksiHandler) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	rd, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rd)
}

// Update handles PUT /redaksi/:id.
func (h *RedaksiHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.RedaksiRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rd := &redaksi.Redaksi{ID: id, Title: req.Title, Content: req.Content}
	if err := h.service.Update(c.Request.Context(), rd); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rd)
}

// Delete handles DELETE /redaksi/:id.
func (h *RedaksiHandler) Delete(c *gin.Context) {
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

// List handles GET /redaksi.
func (h *RedaksiHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}
