package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	"github.com/mediconsult/consult-scheduler/internal/catalog"
	"github.com/mediconsult/consult-scheduler/internal/config"
	"github.com/mediconsult/consult-scheduler/internal/handlers"
	infraRepo "github.com/mediconsult/consult-scheduler/internal/infra/repository"
	"github.com/mediconsult/consult-scheduler/internal/locker"
	"github.com/mediconsult/consult-scheduler/internal/middleware"
	ucBooking "github.com/mediconsult/consult-scheduler/internal/usecase/booking"
	ucSchedule "github.com/mediconsult/consult-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	registry *catalog.Registry,
	locks locker.Locker,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	slotRepo := infraRepo.NewSlotGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// USE CASES — SCHEDULE
	// ======================================================
	resolveDayRangesUC := ucSchedule.NewResolveDayRanges(slotRepo)

	setWeeklyTemplateUC := ucSchedule.NewSetWeeklyTemplate(
		slotRepo,
		registry,
		auditDispatcher,
	)

	setDateOverrideUC := ucSchedule.NewSetDateOverride(
		slotRepo,
		registry,
		auditDispatcher,
	)

	generateSlotsUC := ucSchedule.NewGenerateSlots(
		slotRepo,
		resolveDayRangesUC,
		registry,
		locks,
		auditDispatcher,
	)

	getSlotsUC := ucSchedule.NewGetSlots(slotRepo)
	getDayUC := ucSchedule.NewGetDay(slotRepo, resolveDayRangesUC)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	createSlotUC := ucBooking.NewCreateSlot(slotRepo, registry, auditDispatcher)
	editSlotUC := ucBooking.NewEditSlot(slotRepo, registry, auditDispatcher)
	deleteSlotUC := ucBooking.NewDeleteSlot(slotRepo, auditDispatcher)
	reserveUC := ucBooking.NewReserve(slotRepo, auditDispatcher)
	cancelReservationUC := ucBooking.NewCancelReservation(slotRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(
		db,
		setWeeklyTemplateUC,
		setDateOverrideUC,
		getDayUC,
	)

	slotHandler := handlers.NewSlotHandler(
		generateSlotsUC,
		getSlotsUC,
		createSlotUC,
		editSlotUC,
		deleteSlotUC,
	)

	bookingHandler := handlers.NewBookingHandler(reserveUC, cancelReservationUC)
	publicHandler := handlers.NewPublicHandler(getSlotsUC)
	consultationTypeHandler := handlers.NewConsultationTypeHandler(registry)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/consultation-types", consultationTypeHandler.List)
		api.GET("/consultation-types/:id", consultationTypeHandler.Get)

		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/doctors/:id/slots", publicHandler.ListOpenSlots)
			publicAPI.POST("/slots/:id/reservations", bookingHandler.Reserve)
			publicAPI.DELETE("/slots/:id/reservations/:patientRef", bookingHandler.Cancel)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE (DOCTOR)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/schedule/template", availabilityHandler.GetTemplate)
			secured.PUT("/me/schedule/template/:weekday", availabilityHandler.SetWeekday)
			secured.PUT("/me/schedule/overrides/:date", availabilityHandler.SetOverride)
			secured.GET("/me/schedule/day/:date", availabilityHandler.GetDay)

			// ------------------------------
			// SLOTS
			// ------------------------------
			secured.POST("/me/slots/generate", slotHandler.Generate)
			secured.GET("/me/slots", slotHandler.List)
			secured.POST("/me/slots", slotHandler.Create)
			secured.PATCH("/me/slots/:id", slotHandler.Edit)
			secured.DELETE("/me/slots/:id", slotHandler.Delete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
