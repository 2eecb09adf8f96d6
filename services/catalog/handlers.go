package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// CatalogUseCaseInterface define a interface para o use case
type CatalogUseCaseInterface interface {
	SourceTypes(ctx context.Context) ([]ConceptRef, error)
	SaveSource(ctx context.Context, payload SourcePayload) (*SourceView, error)
	Sources(ctx context.Context, page, pageSize int) (*SourcesView, error)
	Locations(ctx context.Context) (*LocationsView, error)
	StockItems(ctx context.Context, search string, page, pageSize int) (*StockItemsView, error)
	SavePackagingUnit(ctx context.Context, unit PackagingUnit) (*PackagingUnitView, error)
	DeletePackagingUnit(ctx context.Context, uuid string) (*PackagingUnitView, error)
}

// CatalogHandler contém os handlers HTTP do serviço de catálogo
type CatalogHandler struct {
	useCase CatalogUseCaseInterface
	tracer  trace.Tracer
}

// NewCatalogHandler cria uma nova instância de CatalogHandler
func NewCatalogHandler(useCase CatalogUseCaseInterface, tracer trace.Tracer) *CatalogHandler {
	return &CatalogHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// statusFor mapeia erros de domínio para status HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSourceNameRequired),
		errors.Is(err, ErrSourceAcronymRequired),
		errors.Is(err, ErrFactorNotPositive),
		errors.Is(err, ErrStockItemRequired),
		errors.Is(err, ErrPackagingUomRequired):
		return http.StatusBadRequest
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// SourceTypes devolve as respostas do conceito de tipo de origem
func (h *CatalogHandler) SourceTypes(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "source_types")
	defer span.End()

	answers, err := h.useCase.SourceTypes(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sourceTypes": answers})
}

// SaveSource cria ou atualiza uma origem de estoque
func (h *CatalogHandler) SaveSource(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "save_source")
	defer span.End()

	var payload SourcePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.useCase.SaveSource(ctx, payload)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Sources devolve uma página de origens de estoque
func (h *CatalogHandler) Sources(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_sources")
	defer span.End()

	page := queryInt(c.Query("page"), 1)
	pageSize := queryInt(c.Query("pageSize"), defaultPageSize)
	view, err := h.useCase.Sources(ctx, page, pageSize)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Locations devolve a listagem projetada de locais
func (h *CatalogHandler) Locations(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_locations")
	defer span.End()

	view, err := h.useCase.Locations(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// StockItems devolve uma página de itens de estoque
func (h *CatalogHandler) StockItems(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_stock_items")
	defer span.End()

	page := queryInt(c.Query("page"), 1)
	pageSize := queryInt(c.Query("pageSize"), defaultPageSize)
	view, err := h.useCase.StockItems(ctx, c.Query("q"), page, pageSize)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SavePackagingUnit persiste uma unidade de embalagem
func (h *CatalogHandler) SavePackagingUnit(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "save_packaging_unit")
	defer span.End()

	var unit PackagingUnit
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.useCase.SavePackagingUnit(ctx, unit)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeletePackagingUnit remove uma unidade de embalagem
func (h *CatalogHandler) DeletePackagingUnit(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "delete_packaging_unit")
	defer span.End()

	view, err := h.useCase.DeletePackagingUnit(ctx, c.Param("uuid"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// HealthCheck verifica a saúde do serviço
func (h *CatalogHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stock-catalog-service",
	})
}
