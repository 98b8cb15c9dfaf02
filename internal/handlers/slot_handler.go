package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediconsult/consult-scheduler/internal/httperr"
	"github.com/mediconsult/consult-scheduler/internal/httpresp"
	"github.com/mediconsult/consult-scheduler/internal/middleware"
	ucbooking "github.com/mediconsult/consult-scheduler/internal/usecase/booking"
	ucschedule "github.com/mediconsult/consult-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	generateUC *ucschedule.GenerateSlots
	getSlotsUC *ucschedule.GetSlots
	createUC   *ucbooking.CreateSlot
	editUC     *ucbooking.EditSlot
	deleteUC   *ucbooking.DeleteSlot
}

func NewSlotHandler(
	generateUC *ucschedule.GenerateSlots,
	getSlotsUC *ucschedule.GetSlots,
	createUC *ucbooking.CreateSlot,
	editUC *ucbooking.EditSlot,
	deleteUC *ucbooking.DeleteSlot,
) *SlotHandler {
	return &SlotHandler{
		generateUC: generateUC,
		getSlotsUC: getSlotsUC,
		createUC:   createUC,
		editUC:     editUC,
		deleteUC:   deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GenerateSlotsRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type CreateSlotRequest struct {
	Date               string  `json:"date" binding:"required"`
	StartTime          string  `json:"start_time" binding:"required"`
	EndTime            string  `json:"end_time" binding:"required"`
	ConsultationTypeID string  `json:"consultation_type_id" binding:"required"`
	Fee                float64 `json:"fee"`
	MaxPatients        int     `json:"max_patients"`
	Notes              string  `json:"notes"`
}

type EditSlotRequest struct {
	StartTime          *string  `json:"start_time"`
	EndTime            *string  `json:"end_time"`
	ConsultationTypeID *string  `json:"consultation_type_id"`
	Fee                *float64 `json:"fee"`
	MaxPatients        *int     `json:"max_patients"`
	Notes              *string  `json:"notes"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *SlotHandler) Generate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slots, err := h.generateUC.Execute(c.Request.Context(), ucschedule.GenerateSlotsInput{
		DoctorID: doctorID,
		From:     req.From,
		To:       req.To,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.List(c, toSlotResponses(slots))
}

func (h *SlotHandler) List(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}

	slots, err := h.getSlotsUC.Execute(c.Request.Context(), doctorID, from, to)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.List(c, toSlotResponses(slots))
}

func (h *SlotHandler) Create(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slot, err := h.createUC.Execute(c.Request.Context(), ucbooking.CreateSlotInput{
		DoctorID:           doctorID,
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		ConsultationTypeID: req.ConsultationTypeID,
		Fee:                req.Fee,
		MaxPatients:        req.MaxPatients,
		Notes:              req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.Created(c, toSlotResponse(*slot))
}

func (h *SlotHandler) Edit(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req EditSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slot, err := h.editUC.Execute(c.Request.Context(), ucbooking.EditSlotInput{
		SlotID:             slotID,
		DoctorID:           doctorID,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		ConsultationTypeID: req.ConsultationTypeID,
		Fee:                req.Fee,
		MaxPatients:        req.MaxPatients,
		Notes:              req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.OK(c, toSlotResponse(*slot))
}

func (h *SlotHandler) Delete(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), doctorID, slotID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
