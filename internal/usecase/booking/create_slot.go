package booking

import (
	"context"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	"github.com/mediconsult/consult-scheduler/internal/catalog"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateSlotInput struct {
	DoctorID           uint
	Date               string
	StartTime          string
	EndTime            string
	ConsultationTypeID string
	Fee                float64
	MaxPatients        int
	Notes              string
}

// ======================================================
// USE CASE
// ======================================================

// CreateSlot covers ad-hoc single-slot creation outside the weekly
// template ("Add New Slot").
type CreateSlot struct {
	repo    domain.Repository
	catalog *catalog.Registry
	audit   *audit.Dispatcher
}

func NewCreateSlot(
	repo domain.Repository,
	catalog *catalog.Registry,
	audit *audit.Dispatcher,
) *CreateSlot {
	return &CreateSlot{
		repo:    repo,
		catalog: catalog,
		audit:   audit,
	}
}

func (uc *CreateSlot) Execute(
	ctx context.Context,
	in CreateSlotInput,
) (*models.Slot, error) {

	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, err
	}

	start, err := domain.ParseHM(in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseHM(in.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, &domain.ValidationError{Field: "time", Reason: "start must be before end"}
	}
	if in.Fee < 0 {
		return nil, &domain.ValidationError{Field: "fee", Reason: "must not be negative"}
	}

	maxPatients := in.MaxPatients
	if maxPatients == 0 {
		maxPatients = 1
	}
	if maxPatients < 1 {
		return nil, &domain.ValidationError{Field: "max_patients", Reason: "must be at least 1"}
	}

	if _, err := uc.catalog.Lookup(in.ConsultationTypeID); err != nil {
		return nil, err
	}

	slot := &models.Slot{
		DoctorID:           in.DoctorID,
		Date:               in.Date,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		DurationMin:        end - start,
		ConsultationTypeID: in.ConsultationTypeID,
		Fee:                in.Fee,
		MaxPatients:        maxPatients,
		BookedCount:        0,
		Notes:              in.Notes,
	}

	if err := uc.repo.InsertSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		Action:   "slot_created",
		Entity:   "slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}
