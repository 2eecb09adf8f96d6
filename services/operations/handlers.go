package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OperationUseCaseInterface define a interface para o use case
type OperationUseCaseInterface interface {
	StartSession(ctx context.Context, operationType, operationUUID string, canEdit bool) (*SessionView, error)
	GetSession(sessionID string) (*SessionView, error)
	DiscardSession(sessionID string) error
	SetApprovalRequired(sessionID string, required bool) (*SessionView, error)
	AddLineItem(sessionID string) (*SessionView, error)
	UpdateLineItem(sessionID, itemUUID string, patch LineItemPatch) (*SessionView, error)
	RemoveLineItem(ctx context.Context, sessionID, itemUUID string) (*SessionView, error)
	SaveOperation(ctx context.Context, sessionID string) (*SessionView, error)
	CompleteOperation(ctx context.Context, sessionID string) (*SessionView, error)
	DispatchOperation(ctx context.Context, sessionID string) (*SessionView, error)
	SubmitForReview(ctx context.Context, sessionID string) (*SessionView, error)
	ApproveDispatch(ctx context.Context, operationUUID, reason string) error
	ApproveOperation(ctx context.Context, operationUUID string) error
	RejectOperation(ctx context.Context, operationUUID, reason string) error
	ReturnOperation(ctx context.Context, operationUUID, reason string) error
}

// OperationHandler contém os handlers HTTP do serviço de operações
type OperationHandler struct {
	useCase OperationUseCaseInterface
	tracer  trace.Tracer
}

// NewOperationHandler cria uma nova instância de OperationHandler
func NewOperationHandler(useCase OperationUseCaseInterface, tracer trace.Tracer) *OperationHandler {
	return &OperationHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// StartSessionRequest representa a requisição para abrir uma sessão de edição
type StartSessionRequest struct {
	OperationType string `json:"operationType" binding:"required"`
	OperationUUID string `json:"operationUuid"`
	CanEdit       *bool  `json:"canEdit"`
}

// ApprovalRequest representa a resposta do usuário ao "requer aprovação?"
type ApprovalRequest struct {
	Required *bool `json:"required" binding:"required"`
}

// ReasonRequest carrega a justificativa das ações de diálogo
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// statusFor mapeia erros de domínio para status HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownOperationType):
		return http.StatusBadRequest
	case errors.Is(err, ErrEditNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, ErrOperationLocked):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// StartSession abre uma sessão de edição de operação
func (h *OperationHandler) StartSession(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "start_editing_session")
	defer span.End()

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(
		attribute.String("operation_type", req.OperationType),
		attribute.String("operation_uuid", req.OperationUUID),
	)

	canEdit := true
	if req.CanEdit != nil {
		canEdit = *req.CanEdit
	}

	view, err := h.useCase.StartSession(ctx, req.OperationType, req.OperationUUID, canEdit)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession devolve o estado atual de uma sessão
func (h *OperationHandler) GetSession(c *gin.Context) {
	view, err := h.useCase.GetSession(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// DiscardSession descarta a sessão ("go back")
func (h *OperationHandler) DiscardSession(c *gin.Context) {
	if err := h.useCase.DiscardSession(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "discarded"})
}

// SetApproval resolve o tri-estado de aprovação
func (h *OperationHandler) SetApproval(c *gin.Context) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.useCase.SetApprovalRequired(c.Param("id"), *req.Required)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddItem acrescenta uma linha placeholder
func (h *OperationHandler) AddItem(c *gin.Context) {
	view, err := h.useCase.AddLineItem(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateItem aplica um patch de campos a uma linha
func (h *OperationHandler) UpdateItem(c *gin.Context) {
	var patch LineItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.useCase.UpdateLineItem(c.Param("id"), c.Param("itemId"), patch)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveItem remove uma linha (local ou com DELETE no backend)
func (h *OperationHandler) RemoveItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "remove_line_item")
	defer span.End()

	view, err := h.useCase.RemoveLineItem(ctx, c.Param("id"), c.Param("itemId"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// transition roda uma transição de ciclo de vida e devolve a sessão
func (h *OperationHandler) transition(c *gin.Context, name string, run func(context.Context, string) (*SessionView, error)) {
	ctx, span := h.tracer.Start(c.Request.Context(), name)
	defer span.End()
	span.SetAttributes(attribute.String("session_id", c.Param("id")))

	view, err := run(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save persiste o rascunho sem mudar o status
func (h *OperationHandler) Save(c *gin.Context) {
	h.transition(c, "save", h.useCase.SaveOperation)
}

// Complete executa a transição Complete (salvar e concluir)
func (h *OperationHandler) Complete(c *gin.Context) {
	h.transition(c, "complete", h.useCase.CompleteOperation)
}

// Dispatch executa a transição Dispatch (salvar e despachar)
func (h *OperationHandler) Dispatch(c *gin.Context) {
	h.transition(c, "dispatch", h.useCase.DispatchOperation)
}

// Submit encaminha a operação para aprovação
func (h *OperationHandler) Submit(c *gin.Context) {
	h.transition(c, "submit", h.useCase.SubmitForReview)
}

// dialogAction roda uma ação de diálogo sobre uma operação persistida
func (h *OperationHandler) dialogAction(c *gin.Context, name string, run func(context.Context, string, string) error) {
	ctx, span := h.tracer.Start(c.Request.Context(), name)
	defer span.End()

	var req ReasonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := run(ctx, c.Param("uuid"), req.Reason); err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "success"})
}

// ApproveDispatch confirma o despacho (justificativa obrigatória)
func (h *OperationHandler) ApproveDispatch(c *gin.Context) {
	h.dialogAction(c, "approve_dispatch", h.useCase.ApproveDispatch)
}

// Approve aprova uma operação aguardando revisão
func (h *OperationHandler) Approve(c *gin.Context) {
	h.dialogAction(c, "approve", func(ctx context.Context, uuid, _ string) error {
		return h.useCase.ApproveOperation(ctx, uuid)
	})
}

// Reject rejeita uma operação, com justificativa
func (h *OperationHandler) Reject(c *gin.Context) {
	h.dialogAction(c, "reject", h.useCase.RejectOperation)
}

// Return devolve uma operação ao remetente, com justificativa
func (h *OperationHandler) Return(c *gin.Context) {
	h.dialogAction(c, "return", h.useCase.ReturnOperation)
}

// HealthCheck verifica a saúde do serviço
func (h *OperationHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stock-operations-service",
	})
}
