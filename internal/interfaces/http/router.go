package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/veterinaria-api/internal/application/auth"
	"github.com/jhoicas/veterinaria-api/internal/application/billing"
	"github.com/jhoicas/veterinaria-api/internal/application/inventory"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC   *billing.InvoiceUseCase
	InventoryUC *inventory.UseCase
	AuthUC      *auth.UseCase
	OwnerRepo   repository.OwnerRepository
	PetRepo     repository.PetRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoices (protegido): el motor de facturación
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/payment-status", invoiceHandler.UpdatePaymentStatus)

	// Inventory (protegido). El alta y el reabastecimiento requieren rol
	// admin o veterinario; recepción solo consulta.
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Post("/", RequireRole(entity.RoleAdmin, entity.RoleVeterinario), inventoryHandler.Create)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Post("/:id/restock", RequireRole(entity.RoleAdmin, entity.RoleVeterinario), inventoryHandler.Restock)

	// Owners (protegido)
	owners := protected.Group("/owners")
	ownerHandler := NewOwnerHandler(deps.OwnerRepo)
	owners.Post("/", ownerHandler.Create)
	owners.Get("/", ownerHandler.List)
	owners.Get("/:id", ownerHandler.GetByID)

	// Pets (protegido)
	pets := protected.Group("/pets")
	petHandler := NewPetHandler(deps.PetRepo, deps.OwnerRepo)
	pets.Post("/", petHandler.Create)
	pets.Get("/", petHandler.ListByOwner)
}
