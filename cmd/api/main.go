package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/veterinaria-api/internal/application/auth"
	"github.com/jhoicas/veterinaria-api/internal/application/billing"
	"github.com/jhoicas/veterinaria-api/internal/application/inventory"
	"github.com/jhoicas/veterinaria-api/internal/infrastructure/cache"
	"github.com/jhoicas/veterinaria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/veterinaria-api/internal/interfaces/http"
	"github.com/jhoicas/veterinaria-api/pkg/config"
	"github.com/jhoicas/veterinaria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("stock_policy", cfg.Billing.StockPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas y escrituras simples)
	clinicRepo := postgres.NewClinicRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	ownerRepo := postgres.NewOwnerRepository(pool)
	petRepo := postgres.NewPetRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	viewCache := cache.NewMemory()

	inventoryUC := inventory.NewUseCase(txRunner, inventoryRepo, cfg.Billing.StockPolicy, log)
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, inventoryUC,
		ownerRepo, petRepo, inventoryRepo, invoiceRepo,
		viewCache, cfg.Billing, log,
	)
	authUC := auth.NewUseCase(userRepo, clinicRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./api/swagger.json",
		Path:     "docs",
		Title:    "Veterinaria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:   invoiceUC,
		InventoryUC: inventoryUC,
		AuthUC:      authUC,
		OwnerRepo:   ownerRepo,
		PetRepo:     petRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
