package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func main() {
	// Carrega variáveis de ambiente de um .env local, se existir
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})

	// Initialize OpenTelemetry
	tp, err := initTracer()
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Errorf("Error shutting down tracer: %v", err)
		}
	}()

	mp, err := initMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Errorf("Error shutting down meter: %v", err)
		}
	}()

	// Initialize dependencies
	stockAPI := NewRestStockAPIClient(getEnv("STOCK_API_URL", "http://stock-api:8080/ws/rest/v1/stockmanagement"))
	store := NewSessionStore()
	tracer := tp.Tracer("stock-operations-service")
	useCase := NewOperationUseCase(store, stockAPI, LogNotifier{}, tracer)
	handler := NewOperationHandler(useCase, tracer)

	// Setup Gin router
	r := gin.Default()
	r.Use(otelgin.Middleware("stock-operations-service"))

	// Health check
	r.GET("/health", handler.HealthCheck)

	// Editing sessions
	r.POST("/api/operations/sessions", handler.StartSession)
	r.GET("/api/operations/sessions/:id", handler.GetSession)
	r.DELETE("/api/operations/sessions/:id", handler.DiscardSession)
	r.POST("/api/operations/sessions/:id/approval", handler.SetApproval)

	// Line items
	r.POST("/api/operations/sessions/:id/items", handler.AddItem)
	r.PATCH("/api/operations/sessions/:id/items/:itemId", handler.UpdateItem)
	r.DELETE("/api/operations/sessions/:id/items/:itemId", handler.RemoveItem)

	// Lifecycle transitions
	r.POST("/api/operations/sessions/:id/save", handler.Save)
	r.POST("/api/operations/sessions/:id/complete", handler.Complete)
	r.POST("/api/operations/sessions/:id/dispatch", handler.Dispatch)
	r.POST("/api/operations/sessions/:id/submit", handler.Submit)

	// Dialog actions on persisted operations
	r.POST("/api/operations/:uuid/approve", handler.Approve)
	r.POST("/api/operations/:uuid/approvedispatch", handler.ApproveDispatch)
	r.POST("/api/operations/:uuid/reject", handler.Reject)
	r.POST("/api/operations/:uuid/return", handler.Return)

	port := getEnv("PORT", "8080")
	log.Infof("🚀 Stock Operations Service listening on port %s", port)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initTracer() (*sdktrace.TracerProvider, error) {
	ctx := context.Background()

	otlpEndpoint := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(otlpEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(getEnv("SERVICE_NAME", "stock-operations-service")),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otel.SetTracerProvider(tp)

	return tp, nil
}

func initMetrics() (*sdkmetric.MeterProvider, error) {
	ctx := context.Background()

	otlpEndpoint := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(otlpEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(getEnv("SERVICE_NAME", "stock-operations-service")),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
