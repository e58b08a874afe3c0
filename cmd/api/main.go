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

	_ "github.com/jhoicas/encomiendas-api/docs"
	"github.com/jhoicas/encomiendas-api/internal/application/auth"
	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/application/dispatch"
	"github.com/jhoicas/encomiendas-api/internal/application/usecase"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/cache"
	infrahka "github.com/jhoicas/encomiendas-api/internal/infrastructure/hka"
	infrapdf "github.com/jhoicas/encomiendas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/encomiendas-api/internal/interfaces/http"
	"github.com/jhoicas/encomiendas-api/pkg/config"
	pkghka "github.com/jhoicas/encomiendas-api/pkg/hka"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// @title        Encomiendas API
// @version      1.0
// @description  Back office de encomiendas con facturación electrónica The Factory HKA.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	officeRepo := postgres.NewOfficeRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	noteRepo := postgres.NewFiscalNoteRepository(pool)
	dispatchRepo := postgres.NewDispatchRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	loc, err := pkghka.LoadLocation(cfg.HKA.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.HKA.Timezone).Msg("zona horaria HKA")
	}

	// Token HKA: Redis si está configurado (compartido entre instancias), si no en memoria.
	var tokenStore infrahka.TokenStore
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedisTokenStore(cache.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		tokenStore = redisStore
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token HKA en Redis")
	}

	hkaClient := infrahka.NewClient(infrahka.ClientConfig{
		BaseURL:  cfg.HKA.BaseURL,
		Usuario:  cfg.HKA.Usuario,
		Clave:    cfg.HKA.Clave,
		Timeout:  time.Duration(cfg.HKA.TimeoutSeconds) * time.Second,
		TokenTTL: time.Duration(cfg.HKA.TokenTTLMinutes) * time.Minute,
	}, tokenStore, log)
	hkaBuilder := infrahka.NewBuilder(infrahka.BuilderOptions{
		Location:                 loc,
		FallbackEmail:            cfg.HKA.FallbackEmail,
		BuyerContactFromReceiver: cfg.HKA.BuyerContactFromReceiver,
	})

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, noteRepo, log)
	fiscalUC := billing.NewFiscalUseCase(txRunner, invoiceRepo, noteRepo, officeRepo, companyRepo, hkaBuilder, hkaClient, loc, log)
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, officeRepo, companyRepo, infrapdf.NewMarotoPDFGenerator())
	dispatchUC := dispatch.NewUseCase(txRunner, dispatchRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45, // cubre el timeout de HKA
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Encomiendas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		InvoiceUC:  invoiceUC,
		FiscalUC:   fiscalUC,
		InvoicePDF: invoicePDFUC,
		DispatchUC: dispatchUC,
		CompanyUC:  usecase.NewCompanyUseCase(companyRepo),
		OfficeUC:   usecase.NewOfficeUseCase(officeRepo),
		VehicleUC:  usecase.NewVehicleUseCase(vehicleRepo),
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Component("http"),
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
