package main

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OperationUseCase contém a lógica de negócio das sessões de edição de
// operações de estoque
type OperationUseCase struct {
	store    *SessionStore
	client   StockAPIClient
	notifier Notifier
	tracer   trace.Tracer
}

// NewOperationUseCase cria uma nova instância de OperationUseCase
func NewOperationUseCase(
	store *SessionStore,
	client StockAPIClient,
	notifier Notifier,
	tracer trace.Tracer,
) *OperationUseCase {
	return &OperationUseCase{
		store:    store,
		client:   client,
		notifier: notifier,
		tracer:   tracer,
	}
}

// SessionView é a projeção de uma sessão devolvida à UI
type SessionView struct {
	SessionID     string                       `json:"sessionId"`
	Draft         *StockOperation              `json:"draft"`
	Descriptor    OperationTypeDescriptor      `json:"descriptor"`
	Actions       []Action                     `json:"actions"`
	Saving        bool                         `json:"saving"`
	FieldErrors   map[string]map[string]string `json:"fieldErrors,omitempty"`
	Notifications []Notification               `json:"notifications,omitempty"`
}

// viewOf monta a projeção da sessão, drenando as notificações pendentes
func viewOf(session *EditingSession) *SessionView {
	return &SessionView{
		SessionID:     session.ID,
		Draft:         session.Draft,
		Descriptor:    session.Descriptor,
		Actions:       LegalActions(session),
		Saving:        session.IsSaving(),
		FieldErrors:   session.FieldErrors(),
		Notifications: session.drainNotifications(),
	}
}

// StartSession abre uma sessão de edição: vazia para uma operação nova, ou
// hidratada do backend quando um uuid de operação existente é informado.
// Sem descritor do tipo de operação não há formulário, então a sessão não abre.
func (uc *OperationUseCase) StartSession(ctx context.Context, operationType, operationUUID string, canEdit bool) (*SessionView, error) {
	descriptor, err := DescriptorFor(operationType)
	if err != nil {
		return nil, err
	}

	var draft *StockOperation
	if operationUUID != "" {
		draft, err = uc.client.GetOperation(ctx, operationUUID)
		if err != nil {
			log.Errorf("❌ Failed to hydrate operation %s: %v", operationUUID, err)
			return nil, fmt.Errorf("hydrating stock operation: %w", err)
		}
	} else {
		draft = NewStockOperation(operationType)
	}

	session := uc.store.Create(draft, descriptor, canEdit)
	log.Infof("📝 Editing session %s opened (type=%s, editing=%v)", session.ID, operationType, operationUUID != "")
	return viewOf(session), nil
}

// GetSession devolve a projeção atual de uma sessão ativa
func (uc *OperationUseCase) GetSession(sessionID string) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// DiscardSession encerra a sessão sem persistir nada ("go back")
func (uc *OperationUseCase) DiscardSession(sessionID string) error {
	if err := uc.store.Discard(sessionID); err != nil {
		return err
	}
	log.Infof("↩️ Editing session %s discarded", sessionID)
	return nil
}

// SetApprovalRequired resolve o tri-estado de aprovação da sessão
func (uc *OperationUseCase) SetApprovalRequired(sessionID string, required bool) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanEdit {
		return nil, ErrEditNotPermitted
	}
	if session.Draft.IsLocked() {
		return nil, ErrOperationLocked
	}
	if required {
		session.Draft.ApprovalRequired = ApprovalRequired
	} else {
		session.Draft.ApprovalRequired = ApprovalNotRequired
	}
	return viewOf(session), nil
}

// AddLineItem acrescenta uma linha placeholder à sessão
func (uc *OperationUseCase) AddLineItem(sessionID string) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanEdit || session.Draft.IsLocked() {
		return nil, ErrOperationLocked
	}
	item := session.AddItem()
	log.Debugf("➕ Item %s added to session %s", item.UUID, sessionID)
	return viewOf(session), nil
}

// UpdateLineItem aplica um patch de campos a uma linha da sessão
func (uc *OperationUseCase) UpdateLineItem(sessionID, itemUUID string, patch LineItemPatch) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanEdit || session.Draft.IsLocked() {
		return nil, ErrOperationLocked
	}
	if err := session.UpdateItem(itemUUID, patch); err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// RemoveLineItem remove uma linha da sessão. Identidade placeholder: remoção
// puramente local. Identidade persistida: exatamente uma chamada DELETE ao
// backend; em caso de falha a coleção local fica intacta e a UI recebe uma
// notificação de erro com o detalhe do backend.
func (uc *OperationUseCase) RemoveLineItem(ctx context.Context, sessionID, itemUUID string) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanEdit || session.Draft.IsLocked() {
		return nil, ErrOperationLocked
	}
	item, ok := session.Item(itemUUID)
	if !ok {
		return nil, ErrItemNotFound
	}

	if item.IsPlaceholder() {
		_ = session.removeItemLocal(itemUUID)
		return viewOf(session), nil
	}

	ctx, span := uc.tracer.Start(ctx, "delete_operation_item")
	defer span.End()
	span.SetAttributes(attribute.String("item_uuid", itemUUID))

	if err := uc.client.DeleteOperationItem(ctx, itemUUID); err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to delete item %s: %v", itemUUID, err)
		session.notify(NotificationError, t("deleteItemError", "Error removing stock item"), describeBackendError(err))
		return viewOf(session), nil
	}

	_ = session.removeItemLocal(itemUUID)
	session.notify(NotificationSuccess, t("deletedItem", "Stock item removed successfully"), "")
	log.Infof("🗑️ Item %s deleted from operation %s", itemUUID, session.Draft.UUID)
	return viewOf(session), nil
}

// describeBackendError devolve as mensagens extraídas de um *APIError, ou a
// mensagem crua do erro para falhas de transporte
func describeBackendError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return joinMessages(apiErr.Messages)
	}
	return err.Error()
}

func joinMessages(messages []string) string {
	out := ""
	for i, m := range messages {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}

// ApproveDispatch confirma o despacho de uma operação já submetida (diálogo
// "Approve Dispatch"); a justificativa é obrigatória.
func (uc *OperationUseCase) ApproveDispatch(ctx context.Context, operationUUID, reason string) error {
	if reason == "" {
		return fmt.Errorf("a reason is required to approve a dispatch")
	}
	if err := uc.client.ApproveDispatchOperation(ctx, operationUUID, reason); err != nil {
		uc.notifier.Notify(Notification{Kind: NotificationError, Title: t("approveDispatchTitle", "Approve Dispatch"), Description: describeBackendError(err)})
		return err
	}
	uc.notifier.Notify(Notification{Kind: NotificationSuccess, Title: t("approveDispatchTitle", "Approve Dispatch"), Description: t("dispatchedOperation", "Stock operation dispatched successfully")})
	return nil
}

// ApproveOperation aprova uma operação aguardando revisão
func (uc *OperationUseCase) ApproveOperation(ctx context.Context, operationUUID string) error {
	if err := uc.client.ApproveOperation(ctx, operationUUID); err != nil {
		uc.notifier.Notify(Notification{Kind: NotificationError, Title: t("operationError", "Error saving stock operation"), Description: describeBackendError(err)})
		return err
	}
	uc.notifier.Notify(Notification{Kind: NotificationSuccess, Title: t("approvedOperation", "Stock operation approved"), Description: ""})
	return nil
}

// RejectOperation rejeita uma operação aguardando revisão, com justificativa
func (uc *OperationUseCase) RejectOperation(ctx context.Context, operationUUID, reason string) error {
	if reason == "" {
		return fmt.Errorf("a reason is required to reject an operation")
	}
	if err := uc.client.RejectOperation(ctx, operationUUID, reason); err != nil {
		uc.notifier.Notify(Notification{Kind: NotificationError, Title: t("operationError", "Error saving stock operation"), Description: describeBackendError(err)})
		return err
	}
	uc.notifier.Notify(Notification{Kind: NotificationSuccess, Title: t("rejectedOperation", "Stock operation rejected"), Description: ""})
	return nil
}

// ReturnOperation devolve uma operação ao remetente, com justificativa
func (uc *OperationUseCase) ReturnOperation(ctx context.Context, operationUUID, reason string) error {
	if reason == "" {
		return fmt.Errorf("a reason is required to return an operation")
	}
	if err := uc.client.ReturnOperation(ctx, operationUUID, reason); err != nil {
		uc.notifier.Notify(Notification{Kind: NotificationError, Title: t("operationError", "Error saving stock operation"), Description: describeBackendError(err)})
		return err
	}
	uc.notifier.Notify(Notification{Kind: NotificationSuccess, Title: t("returnedOperation", "Stock operation returned"), Description: ""})
	return nil
}
