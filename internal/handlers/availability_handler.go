package handlers

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	schedule "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/httperr"
	"github.com/mediconsult/consult-scheduler/internal/httpresp"
	"github.com/mediconsult/consult-scheduler/internal/middleware"
	"github.com/mediconsult/consult-scheduler/internal/models"
	ucschedule "github.com/mediconsult/consult-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	db            *gorm.DB
	setTemplateUC *ucschedule.SetWeeklyTemplate
	setOverrideUC *ucschedule.SetDateOverride
	getDayUC      *ucschedule.GetDay
}

func NewAvailabilityHandler(
	db *gorm.DB,
	setTemplateUC *ucschedule.SetWeeklyTemplate,
	setOverrideUC *ucschedule.SetDateOverride,
	getDayUC *ucschedule.GetDay,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:            db,
		setTemplateUC: setTemplateUC,
		setOverrideUC: setOverrideUC,
		getDayUC:      getDayUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type timeRangeRequest struct {
	Start              string  `json:"start" binding:"required"`
	End                string  `json:"end" binding:"required"`
	SlotDurationMin    int     `json:"slot_duration_min" binding:"required"`
	ConsultationTypeID string  `json:"consultation_type_id" binding:"required"`
	MaxPatients        int     `json:"max_patients"`
	Fee                float64 `json:"fee"`
}

type SetWeekdayRequest struct {
	Ranges []timeRangeRequest `json:"ranges"`
}

type SetOverrideRequest struct {
	Disabled bool               `json:"disabled"`
	Ranges   []timeRangeRequest `json:"ranges"`
}

func toDomainRanges(in []timeRangeRequest) []schedule.TimeRange {
	out := make([]schedule.TimeRange, 0, len(in))
	for _, r := range in {
		maxPatients := r.MaxPatients
		if maxPatients == 0 {
			maxPatients = 1
		}
		out = append(out, schedule.TimeRange{
			Start:              r.Start,
			End:                r.End,
			SlotDurationMin:    r.SlotDurationMin,
			ConsultationTypeID: r.ConsultationTypeID,
			MaxPatients:        maxPatients,
			Fee:                r.Fee,
		})
	}
	return out
}

// ======================================================
// WEEKLY TEMPLATE
// ======================================================

func (h *AvailabilityHandler) GetTemplate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var rows []models.TemplateRange
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_template", "Could not load weekly template.")
		return
	}

	httpresp.List(c, rows)
}

func (h *AvailabilityHandler) SetWeekday(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	weekday, ok := weekdayParam(c)
	if !ok {
		return
	}

	var req SetWeekdayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rows, err := h.setTemplateUC.Execute(c.Request.Context(), ucschedule.SetWeeklyTemplateInput{
		DoctorID: doctorID,
		Weekday:  weekday,
		Ranges:   toDomainRanges(req.Ranges),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.List(c, rows)
}

// ======================================================
// DATE OVERRIDE
// ======================================================

func (h *AvailabilityHandler) SetOverride(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)
	date := c.Param("date")

	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	override, err := h.setOverrideUC.Execute(c.Request.Context(), ucschedule.SetDateOverrideInput{
		DoctorID: doctorID,
		Date:     date,
		Disabled: req.Disabled,
		Ranges:   toDomainRanges(req.Ranges),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.OK(c, override)
}

// ======================================================
// DAY VIEW
// ======================================================

func (h *AvailabilityHandler) GetDay(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)
	date := c.Param("date")

	view, err := h.getDayUC.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":   view.Date,
		"ranges": view.Ranges,
		"slots":  toSlotResponses(view.Slots),
	})
}
