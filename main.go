package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"neogaming/internal/checkout"
	"neogaming/internal/config"
	"neogaming/internal/handlers"
	"neogaming/internal/metrics"
	"neogaming/internal/middleware"
	"neogaming/internal/models"
	"neogaming/internal/places"
	"neogaming/internal/repositories"
	"neogaming/internal/services"
	"neogaming/internal/upstream"
	"neogaming/internal/weather"
	"neogaming/pkg/rabbitmq"
)

// setupLogger builds the global zap logger. Production logs are JSON;
// LOG_FILE adds a rotated file sink.
func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if cfg.Production() {
		zapConfig = zap.NewProductionConfig()
	}
	if err := zapConfig.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Log.Level, err)
	}

	if cfg.Log.File == "" {
		return zapConfig.Build()
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotated), zapConfig.Level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(zapConfig.EncoderConfig), zapcore.AddSync(os.Stdout), zapConfig.Level),
	)
	return zap.New(core, zap.AddCaller()), nil
}

// openDatabase connects to the configured database and migrates the schema.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	level := gormlogger.Warn
	if cfg.Production() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewApp wires repositories, services and handlers into a Fiber app.
// events may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, events services.EventPublisher) (*fiber.App, error) {
	productService := services.NewProductService(repositories.NewGORMProductRepository(db))
	if _, err := productService.SeedIfEmpty(models.ExampleProducts()); err != nil {
		return nil, fmt.Errorf("failed to seed products: %w", err)
	}
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), events)

	// Nominatim serves both clients; they share its request budget.
	limiter := upstream.NewLimiter(cfg.Places.RequestsPerSecond, 1)
	placesClient := places.NewClient(places.Config{
		NominatimURL: cfg.Places.NominatimURL,
		OverpassURL:  cfg.Places.OverpassURL,
		UserAgent:    cfg.Places.UserAgent,
		Limiter:      limiter,
		Timeout:      cfg.UpstreamTimeout,
	})
	var reporter services.WeatherReporter
	if cfg.Weather.APIKey != "" {
		reporter = weather.NewClient(weather.Config{
			APIURL:     cfg.Weather.APIURL,
			APIKey:     cfg.Weather.APIKey,
			GeocodeURL: cfg.Places.NominatimURL,
			UserAgent:  cfg.Places.UserAgent,
			Timeout:    cfg.UpstreamTimeout,
			Limiter:    limiter,
		})
	} else {
		zap.S().Warn("WEATHER_API_KEY is not set, weather is disabled")
	}
	discovery := services.NewDiscoveryService(placesClient, reporter)

	app := fiber.New(fiber.Config{
		AppName:      "NeoGaming",
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.Metrics())
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"message":   "NeoGaming server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api)
	handlers.NewDiscoveryHandler(discovery).RegisterRoutes(api)
	handlers.NewReceiptHandler(checkout.NewReceiptSigner(cfg.ReceiptSecret)).RegisterRoutes(api)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "API endpoint not found"})
	})

	return app, nil
}

// errorHandler renders every unhandled error as JSON. Panics reach it via
// the recover middleware.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong on the server"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		zap.S().Errorf("%s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

// connectEvents starts the event bus. It returns nil when RABBITMQ_URL is
// unset or the broker is unreachable; the server runs without events.
func connectEvents(cfg *config.Config) *rabbitmq.Client {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		return nil
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		zap.S().Warnf("event publishing disabled: %v", err)
		return nil
	}
	if err := client.Consume(rabbitmq.LogEvent); err != nil {
		zap.S().Warnf("failed to start event consumer: %v", err)
	}
	return client
}

func main() {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		zap.S().Fatalf("database: %v", err)
	}

	var events services.EventPublisher
	if mq := connectEvents(cfg); mq != nil {
		defer mq.Close()
		events = mq
	}

	app, err := NewApp(cfg, db, events)
	if err != nil {
		zap.S().Fatalf("failed to create app: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zap.S().Infof("starting server on %s (%s)", cfg.ListenAddr(), cfg.Env)
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			zap.S().Fatalf("server failed to start: %v", err)
		}
	}()

	<-quit
	zap.S().Info("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zap.S().Errorf("error during Fiber shutdown: %v", err)
	}
	zap.S().Info("server gracefully stopped")
}
