package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Action é um botão de transição do ciclo de vida da operação
type Action string

const (
	ActionSave     Action = "save"
	ActionComplete Action = "complete"
	ActionDispatch Action = "dispatch"
	ActionSubmit   Action = "submit"
	ActionGoBack   Action = "goback"
)

// LegalActions calcula o conjunto de ações disponíveis para a sessão a partir
// do tri-estado de aprovação, do descritor e do estado do rascunho. Enquanto o
// tri-estado não for resolvido explicitamente, nenhuma transição com backend
// além de salvar é exposta.
func LegalActions(session *EditingSession) []Action {
	actions := []Action{ActionGoBack}
	if !session.CanEdit || session.Draft.IsLocked() {
		return actions
	}
	actions = append(actions, ActionSave)

	switch session.Draft.ApprovalRequired {
	case ApprovalNotRequired:
		if session.Descriptor.RequiresDispatchAcknowledgement {
			actions = append(actions, ActionDispatch)
		} else {
			actions = append(actions, ActionComplete)
		}
	case ApprovalRequired:
		actions = append(actions, ActionSubmit)
	}
	return actions
}

// actionAllowed confere se uma ação está no conjunto legal da sessão
func actionAllowed(session *EditingSession, action Action) bool {
	for _, a := range LegalActions(session) {
		if a == action {
			return true
		}
	}
	return false
}

// doSave persiste o rascunho atual no backend com status NEW. O payload é
// construído do rascunho sem os campos atribuídos pelo servidor; o registro
// devolvido pelo backend substitui o rascunho local, preservando o tri-estado
// de aprovação que só existe na sessão.
func (uc *OperationUseCase) doSave(ctx context.Context, session *EditingSession) error {
	session.mu.Lock()
	payload := buildSavePayload(session.Draft)
	persisted := session.Draft.IsPersisted()
	draftUUID := session.Draft.UUID
	approval := session.Draft.ApprovalRequired
	session.mu.Unlock()

	var saved *StockOperation
	var err error
	if persisted {
		saved, err = uc.client.UpdateOperation(ctx, draftUUID, payload)
	} else {
		saved, err = uc.client.CreateOperation(ctx, payload)
	}
	if err != nil {
		log.Errorf("❌ Failed to save stock operation: %v", err)
		session.notify(NotificationError, t("operationError", "Error saving stock operation"), describeBackendError(err))
		return err
	}

	saved.ApprovalRequired = approval
	session.replaceDraft(saved)
	log.Infof("💾 Stock operation %s saved (number=%s)", saved.UUID, saved.OperationNumber)
	return nil
}

// SaveOperation persiste o rascunho sem mudar o status ("save only").
// Uma segunda submissão enquanto outra está em voo é um no-op.
func (uc *OperationUseCase) SaveOperation(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !actionAllowed(session, ActionSave) {
		log.Warnf("⚠️ Save not available for session %s", sessionID)
		return viewOf(session), nil
	}
	if !session.beginSave() {
		return viewOf(session), nil
	}
	defer session.endSave()

	ctx, span := uc.tracer.Start(ctx, "save_stock_operation")
	defer span.End()
	span.SetAttributes(attribute.String("operation_type", session.Draft.OperationType))

	if err := uc.doSave(ctx, session); err != nil {
		span.RecordError(err)
		return viewOf(session), nil
	}
	session.notify(NotificationSuccess, t("savedOperation", "Stock operation saved successfully"), "")
	return viewOf(session), nil
}

// CompleteOperation executa a transição Complete em duas fases: salvar e, só
// depois do salvamento bem-sucedido, reemitir com status COMPLETED. Se o
// salvamento falhar a cadeia inteira aborta e o rascunho fica como estava.
func (uc *OperationUseCase) CompleteOperation(ctx context.Context, sessionID string) (*SessionView, error) {
	return uc.runTwoPhase(ctx, sessionID, ActionComplete, "complete_stock_operation",
		func(ctx context.Context, session *EditingSession) error {
			if err := uc.client.CompleteOperation(ctx, session.Draft.UUID); err != nil {
				return err
			}
			session.Draft.Status = StatusCompleted
			session.notify(NotificationSuccess, t("completedOperation", "Stock operation completed successfully"), "")
			return nil
		})
}

// DispatchOperation executa a transição Dispatch: salvar e reemitir pelo
// endpoint de despacho, que deixa a operação aguardando confirmação no destino
func (uc *OperationUseCase) DispatchOperation(ctx context.Context, sessionID string) (*SessionView, error) {
	return uc.runTwoPhase(ctx, sessionID, ActionDispatch, "dispatch_stock_operation",
		func(ctx context.Context, session *EditingSession) error {
			if err := uc.client.DispatchOperation(ctx, session.Draft.UUID); err != nil {
				return err
			}
			session.Draft.Status = StatusDispatched
			session.notify(NotificationSuccess, t("dispatchedOperation", "Stock operation dispatched successfully"), "")
			return nil
		})
}

// SubmitForReview encaminha a operação para aprovação. A chamada é direta ao
// endpoint de submissão; o rascunho só é salvo antes se ainda não tiver
// identidade no backend.
func (uc *OperationUseCase) SubmitForReview(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !actionAllowed(session, ActionSubmit) {
		log.Warnf("⚠️ Submit not available for session %s", sessionID)
		return viewOf(session), nil
	}
	if !session.beginSave() {
		return viewOf(session), nil
	}
	defer session.endSave()

	ctx, span := uc.tracer.Start(ctx, "submit_stock_operation")
	defer span.End()

	if err := session.validateForSubmission(); err != nil {
		if err == ErrNoStockItems {
			session.notify(NotificationError, t("noStockItemsTitle", "No stock items"), t("noStockItems", "You haven't added any stock items, tap the add button to add some."))
		}
		return viewOf(session), nil
	}
	if !session.Draft.IsPersisted() {
		if err := uc.doSave(ctx, session); err != nil {
			span.RecordError(err)
			return viewOf(session), nil
		}
	}
	if err := uc.client.SubmitOperation(ctx, session.Draft.UUID); err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to submit stock operation %s: %v", session.Draft.UUID, err)
		session.notify(NotificationError, t("operationError", "Error saving stock operation"), describeBackendError(err))
		return viewOf(session), nil
	}
	session.Draft.Status = StatusSubmitted
	session.notify(NotificationSuccess, t("submittedOperation", "Stock operation submitted for review"), "")
	log.Infof("📨 Stock operation %s submitted for review", session.Draft.UUID)
	return viewOf(session), nil
}

// runTwoPhase executa uma transição salvar-e-reemitir com a flag de ocupado
// garantidamente liberada nos dois desfechos. A segunda fase nunca roda se o
// salvamento falhar.
func (uc *OperationUseCase) runTwoPhase(ctx context.Context, sessionID string, action Action, spanName string, phase2 func(context.Context, *EditingSession) error) (*SessionView, error) {
	session, err := uc.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !actionAllowed(session, action) {
		log.Warnf("⚠️ %s not available for session %s", action, sessionID)
		return viewOf(session), nil
	}
	if !session.beginSave() {
		return viewOf(session), nil
	}
	defer session.endSave()

	ctx, span := uc.tracer.Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.String("operation_type", session.Draft.OperationType))

	if err := session.validateForSubmission(); err != nil {
		if err == ErrNoStockItems {
			session.notify(NotificationError, t("noStockItemsTitle", "No stock items"), t("noStockItems", "You haven't added any stock items, tap the add button to add some."))
		}
		return viewOf(session), nil
	}

	if err := uc.doSave(ctx, session); err != nil {
		span.RecordError(err)
		return viewOf(session), nil
	}
	if err := phase2(ctx, session); err != nil {
		span.RecordError(err)
		log.Errorf("❌ %s failed for operation %s: %v", action, session.Draft.UUID, err)
		session.notify(NotificationError, t("operationError", "Error saving stock operation"), describeBackendError(err))
		return viewOf(session), nil
	}
	return viewOf(session), nil
}
