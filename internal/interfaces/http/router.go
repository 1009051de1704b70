package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/report"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC   *usecase.OrderUseCase
	UserUC    *usecase.UserUseCase
	ReportUC  *report.ReportUseCase
	AuthUC    *auth.AuthUseCase
	Denylist  auth.TokenDenylist
	JWTSecret string

	// DebugErrors expone el detalle de errores internos en la respuesta.
	// Solo para entornos de desarrollo.
	DebugErrors bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	initValidator()
	debugErrors = deps.DebugErrors

	api := app.Group("/api")

	supervisor := RequireRole(entity.RoleMaintenanceSupervisor)
	technician := RequireRole(entity.RoleMaintenanceOperator, entity.RoleMaintenanceSupervisor)

	// Auth (login público, el resto requiere Bearer Token)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret, deps.Denylist), authHandler.Logout)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret, deps.Denylist), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Denylist))

	// Usuarios (solo supervisión)
	users := protected.Group("/users", supervisor)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)

	// Órdenes de trabajo
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", supervisor, orderHandler.Update)
	orders.Delete("/:id", supervisor, orderHandler.Delete)
	orders.Post("/:id/assign", supervisor, orderHandler.Assign)
	orders.Post("/:id/start", technician, orderHandler.Start)
	orders.Post("/:id/finish", technician, orderHandler.Finish)
	orders.Post("/:id/cancel", supervisor, orderHandler.Cancel)
	orders.Post("/:id/close", supervisor, orderHandler.Close)
	orders.Post("/:id/evidence", technician, orderHandler.UploadEvidence)

	// Informes técnicos
	reportHandler := NewReportHandler(deps.ReportUC)
	orders.Post("/:id/report", supervisor, reportHandler.Create)
	orders.Get("/:id/report", reportHandler.Get)
	orders.Get("/:id/report/pdf", reportHandler.DownloadPDF)
}
