package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/solestride/orders-service/internal/analytics"
	"github.com/solestride/orders-service/internal/catalog"
	"github.com/solestride/orders-service/internal/identity"
	"github.com/solestride/orders-service/internal/messaging"
	"github.com/solestride/orders-service/internal/orders"
	"github.com/solestride/orders-service/internal/telemetry"
)

const (
	serviceName    = "orders-service"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var createdEvents, statusEvents *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		createdEvents = messaging.NewProducer(brokers, messaging.TopicOrderCreated)
		defer func() { _ = createdEvents.Close() }()
		statusEvents = messaging.NewProducer(brokers, messaging.TopicOrderStatusChanged)
		defer func() { _ = statusEvents.Close() }()
	}

	orderRepo := orders.NewOrderRepository(db)
	orderService := orders.NewService(orderRepo)
	productRepo := catalog.NewProductRepository(db)

	ordersHandler := newOrdersHandler(orderService, createdEvents, statusEvents, logger)
	analyticsHandler := analytics.NewHandler(analytics.NewService(orderRepo), logger)
	catalogHandler := catalog.NewHandler(productRepo, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metricsHandler)

	r.Get("/products", catalogHandler.HandleList)
	r.Get("/products/{id}", catalogHandler.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(identity.Authenticate)

		r.Post("/orders", ordersHandler.HandleCreate)
		r.Get("/orders", ordersHandler.HandleListMine)
		r.Get("/orders/{id}", ordersHandler.HandleGet)

		r.Route("/admin", func(r chi.Router) {
			r.Use(identity.RequireAdmin)

			r.Get("/orders", ordersHandler.HandleListAll)
			r.Patch("/orders/{id}/status", ordersHandler.HandleUpdateStatus)
			r.Get("/stats", analyticsHandler.HandleDashboardStats)
			r.Get("/inventory", catalogHandler.HandleInventory)
			r.Post("/products", catalogHandler.HandleCreate)
			r.Put("/products/{id}", catalogHandler.HandleUpdate)
			r.Delete("/products/{id}", catalogHandler.HandleDelete)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      otelhttp.NewHandler(r, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting orders service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// newOrdersHandler keeps the nil-producer case typed: a nil *Producer
// stored in a non-nil interface would dodge the handler's nil checks.
func newOrdersHandler(service *orders.Service, createdEvents, statusEvents *messaging.Producer, logger *slog.Logger) *orders.Handler {
	var created, status orders.EventPublisher
	if createdEvents != nil {
		created = createdEvents
	}
	if statusEvents != nil {
		status = statusEvents
	}
	return orders.NewHandler(service, created, status, logger)
}
