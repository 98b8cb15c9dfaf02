package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mediconsult/consult-scheduler/internal/middleware"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "doctor_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor": gin.H{
			"id":        doctor.ID,
			"name":      doctor.Name,
			"email":     doctor.Email,
			"specialty": doctor.Specialty,
			"timezone":  doctor.Timezone,
		},
	})
}
