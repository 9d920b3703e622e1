package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"
)

type Controllers struct {
	Equipment      *controllers.EquipmentController
	Category       *controllers.CategoryController
	Reservation    *controllers.ReservationController
	WorkOrder      *controllers.WorkOrderController
	MaintenanceLog *controllers.MaintenanceLogController
	Report         *controllers.ReportController
}

// Register wires every route under /api/v1. Everything except the
// availability check requires authentication.
func Register(e *echo.Echo, c Controllers, auth *middleware.AuthMiddleware) {
	api := e.Group("/api/v1")

	// Availability is a read-only lookup the booking UI polls before
	// the user signs in.
	api.POST("/reservations/check-availability", c.Reservation.CheckAvailability)

	secured := api.Group("", auth.Auth)

	equipment := secured.Group("/equipment")
	equipment.POST("", c.Equipment.Create)
	equipment.GET("", c.Equipment.List)
	equipment.GET("/:id", c.Equipment.Find)
	equipment.PUT("/:id", c.Equipment.Update)
	equipment.DELETE("/:id", c.Equipment.Delete)
	equipment.GET("/:id/status", c.Equipment.Status)
	equipment.GET("/:id/active-reservation", c.Reservation.ActiveForEquipment)

	categories := secured.Group("/categories")
	categories.POST("", c.Category.Create)
	categories.GET("", c.Category.List)
	categories.GET("/:id", c.Category.Find)
	categories.PUT("/:id", c.Category.Update)
	categories.DELETE("/:id", c.Category.Delete)

	reservations := secured.Group("/reservations")
	reservations.POST("", c.Reservation.Create)
	reservations.GET("/mine", c.Reservation.ListMine)
	reservations.GET("/active", c.Reservation.ListActive)
	reservations.GET("/:id", c.Reservation.Find)
	reservations.POST("/:id/complete", c.Reservation.Complete)
	reservations.POST("/:id/cancel", c.Reservation.Cancel)

	workOrders := secured.Group("/work-orders")
	workOrders.POST("", c.WorkOrder.Create)
	workOrders.GET("", c.WorkOrder.List)
	workOrders.GET("/dashboard", c.WorkOrder.Dashboard)
	workOrders.GET("/open-counts", c.WorkOrder.OpenCounts)
	workOrders.GET("/:id", c.WorkOrder.Find)
	workOrders.PUT("/:id", c.WorkOrder.Update)
	workOrders.DELETE("/:id", c.WorkOrder.Delete)
	workOrders.POST("/:id/transition", c.WorkOrder.Transition)
	workOrders.POST("/:id/complete", c.WorkOrder.Complete)
	workOrders.POST("/:id/close", c.WorkOrder.Close)
	workOrders.POST("/:id/comments", c.WorkOrder.AddComment)
	workOrders.GET("/:id/comments", c.WorkOrder.ListComments)

	logs := secured.Group("/maintenance-logs")
	logs.POST("", c.MaintenanceLog.Create)
	logs.GET("", c.MaintenanceLog.List)
	logs.GET("/:id", c.MaintenanceLog.Find)
	logs.PUT("/:id", c.MaintenanceLog.Update)
	logs.DELETE("/:id", c.MaintenanceLog.Delete)

	reports := secured.Group("/reports")
	reports.GET("/maintenance-history", c.Report.MaintenanceHistory)
}
