package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mediconsult/consult-scheduler/internal/catalog"
	"github.com/mediconsult/consult-scheduler/internal/httpresp"
)

type ConsultationTypeHandler struct {
	registry *catalog.Registry
}

func NewConsultationTypeHandler(registry *catalog.Registry) *ConsultationTypeHandler {
	return &ConsultationTypeHandler{registry: registry}
}

func (h *ConsultationTypeHandler) List(c *gin.Context) {
	httpresp.List(c, h.registry.List())
}

func (h *ConsultationTypeHandler) Get(c *gin.Context) {
	entry, err := h.registry.Lookup(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	httpresp.OK(c, entry)
}
