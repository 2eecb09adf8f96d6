package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// ReportsUseCaseInterface define a interface para o use case
type ReportsUseCaseInterface interface {
	Transactions(ctx context.Context, stockItemUUID string, page, pageSize int) (*TransactionsView, error)
	RoleScopes(ctx context.Context, page, pageSize int) (*RoleScopesView, error)
	IssuingCards(ctx context.Context, locationUUID string) (*HomeCardsView, error)
	ReceivingCards(ctx context.Context, locationUUID string) (*HomeCardsView, error)
}

// ReportsHandler contém os handlers HTTP do serviço de relatórios
type ReportsHandler struct {
	useCase ReportsUseCaseInterface
	tracer  trace.Tracer
}

// NewReportsHandler cria uma nova instância de ReportsHandler
func NewReportsHandler(useCase ReportsUseCaseInterface, tracer trace.Tracer) *ReportsHandler {
	return &ReportsHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// statusFor mapeia falhas do backend para status HTTP
func statusFor(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Transactions devolve a página projetada de movimentos de um item
func (h *ReportsHandler) Transactions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "transactions")
	defer span.End()

	stockItemUUID := c.Query("stockItemUuid")
	if stockItemUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stockItemUuid is required"})
		return
	}
	page := queryInt(c.Query("page"), 1)
	pageSize := queryInt(c.Query("pageSize"), defaultPageSize)

	view, err := h.useCase.Transactions(ctx, stockItemUUID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// RoleScopes devolve a página projetada de escopos de papel de usuário
func (h *ReportsHandler) RoleScopes(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "role_scopes")
	defer span.End()

	page := queryInt(c.Query("page"), 1)
	pageSize := queryInt(c.Query("pageSize"), defaultPageSize)

	view, err := h.useCase.RoleScopes(ctx, page, pageSize)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// IssuingCards devolve os cartões de saída da tela inicial
func (h *ReportsHandler) IssuingCards(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "issuing_cards")
	defer span.End()

	view, err := h.useCase.IssuingCards(ctx, c.Query("locationUuid"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// ReceivingCards devolve os cartões de entrada da tela inicial
func (h *ReportsHandler) ReceivingCards(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "receiving_cards")
	defer span.End()

	view, err := h.useCase.ReceivingCards(ctx, c.Query("locationUuid"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// HealthCheck verifica a saúde do serviço
func (h *ReportsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stock-reports-service",
	})
}
