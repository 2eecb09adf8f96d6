package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// MockStockAPIClient simula o backend REST de estoque
type MockStockAPIClient struct {
	mock.Mock
}

func (m *MockStockAPIClient) GetOperation(ctx context.Context, uuid string) (*StockOperation, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockOperation), args.Error(1)
}

func (m *MockStockAPIClient) CreateOperation(ctx context.Context, payload SaveOperationPayload) (*StockOperation, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockOperation), args.Error(1)
}

func (m *MockStockAPIClient) UpdateOperation(ctx context.Context, uuid string, payload SaveOperationPayload) (*StockOperation, error) {
	args := m.Called(ctx, uuid, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockOperation), args.Error(1)
}

func (m *MockStockAPIClient) CompleteOperation(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockStockAPIClient) DispatchOperation(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockStockAPIClient) SubmitOperation(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockStockAPIClient) ApproveOperation(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockStockAPIClient) ApproveDispatchOperation(ctx context.Context, uuid, reason string) error {
	args := m.Called(ctx, uuid, reason)
	return args.Error(0)
}

func (m *MockStockAPIClient) RejectOperation(ctx context.Context, uuid, reason string) error {
	args := m.Called(ctx, uuid, reason)
	return args.Error(0)
}

func (m *MockStockAPIClient) ReturnOperation(ctx context.Context, uuid, reason string) error {
	args := m.Called(ctx, uuid, reason)
	return args.Error(0)
}

func (m *MockStockAPIClient) DeleteOperationItem(ctx context.Context, itemUUID string) error {
	args := m.Called(ctx, itemUUID)
	return args.Error(0)
}

// recordingNotifier acumula as notificações emitidas no canal global
type recordingNotifier struct {
	notifications []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.notifications = append(r.notifications, n)
}

func newTestUseCase(client StockAPIClient) (*OperationUseCase, *SessionStore) {
	store := NewSessionStore()
	uc := NewOperationUseCase(store, client, LogNotifier{}, otel.Tracer("test"))
	return uc, store
}

// fillValidItem preenche uma linha com todos os campos que o descritor exige
func fillValidItem(t *testing.T, session *EditingSession, itemUUID string) {
	t.Helper()
	expiry := time.Now().AddDate(1, 0, 0)
	require.NoError(t, session.UpdateItem(itemUUID, LineItemPatch{
		StockItemUUID:     strPtr("si-1"),
		PackagingUnitUUID: strPtr("uom-1"),
		Quantity:          decPtr(decimal.NewFromInt(10)),
		BatchNo:           strPtr("B-001"),
		Expiration:        &expiry,
	}))
}

func startSession(t *testing.T, store *SessionStore, operationType string, approval ApprovalState) *EditingSession {
	t.Helper()
	descriptor, err := DescriptorFor(operationType)
	require.NoError(t, err)
	draft := NewStockOperation(operationType)
	draft.ApprovalRequired = approval
	return store.Create(draft, descriptor, true)
}

func TestLegalActions(t *testing.T) {
	cases := []struct {
		name          string
		operationType string
		approval      ApprovalState
		status        string
		canEdit       bool
		expected      []Action
	}{
		{"approval unset exposes only save", OperationTypeReceipt, ApprovalUnset, StatusNew, true, []Action{ActionGoBack, ActionSave}},
		{"not required completes directly", OperationTypeReceipt, ApprovalNotRequired, StatusNew, true, []Action{ActionGoBack, ActionSave, ActionComplete}},
		{"not required dispatches when acknowledgement needed", OperationTypeIssue, ApprovalNotRequired, StatusNew, true, []Action{ActionGoBack, ActionSave, ActionDispatch}},
		{"required submits for review", OperationTypeReceipt, ApprovalRequired, StatusNew, true, []Action{ActionGoBack, ActionSave, ActionSubmit}},
		{"locked operation only goes back", OperationTypeReceipt, ApprovalNotRequired, StatusCompleted, true, []Action{ActionGoBack}},
		{"read-only session only goes back", OperationTypeReceipt, ApprovalNotRequired, StatusNew, false, []Action{ActionGoBack}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			_, store := newTestUseCase(new(MockStockAPIClient))
			session := startSession(t, store, tc.operationType, tc.approval)
			session.Draft.Status = tc.status
			session.CanEdit = tc.canEdit

			// Act / Assert
			assert.Equal(t, tc.expected, LegalActions(session))
		})
	}
}

func TestCompleteOperationHappyPath(t *testing.T) {
	// Arrange
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalNotRequired)
	item := session.AddItem()
	fillValidItem(t, session, item.UUID)

	saved := NewStockOperation(OperationTypeReceipt)
	saved.UUID = "op-1"
	saved.OperationNumber = "RCPT-001"
	saved.Items = session.Draft.Items
	client.On("CreateOperation", mock.Anything, mock.Anything).Return(saved, nil)
	client.On("CompleteOperation", mock.Anything, "op-1").Return(nil)

	// Act
	view, err := uc.CompleteOperation(context.Background(), session.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, view.Draft.Status)
	assert.Equal(t, "op-1", view.Draft.UUID)
	require.NotEmpty(t, view.Notifications)
	assert.Equal(t, NotificationSuccess, view.Notifications[len(view.Notifications)-1].Kind)
	client.AssertExpectations(t)
}

func TestCompleteAbortsWhenSaveFails(t *testing.T) {
	// Arrange: a primeira fase falha, a segunda nunca pode rodar
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalNotRequired)
	item := session.AddItem()
	fillValidItem(t, session, item.UUID)

	client.On("CreateOperation", mock.Anything, mock.Anything).
		Return(nil, &APIError{StatusCode: 500, Messages: []string{"boom"}})

	// Act
	view, err := uc.CompleteOperation(context.Background(), session.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusNew, view.Draft.Status)
	assert.False(t, view.Draft.IsPersisted())
	require.NotEmpty(t, view.Notifications)
	assert.Equal(t, NotificationError, view.Notifications[0].Kind)
	assert.Contains(t, view.Notifications[0].Description, "boom")
	client.AssertNotCalled(t, "CompleteOperation", mock.Anything, mock.Anything)
}

func TestDispatchUsesDispatchEndpoint(t *testing.T) {
	// Arrange: saída de estoque exige confirmação no destino
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeIssue, ApprovalNotRequired)
	item := session.AddItem()
	fillValidItem(t, session, item.UUID)

	saved := NewStockOperation(OperationTypeIssue)
	saved.UUID = "op-9"
	saved.Items = session.Draft.Items
	client.On("CreateOperation", mock.Anything, mock.Anything).Return(saved, nil)
	client.On("DispatchOperation", mock.Anything, "op-9").Return(nil)

	// Act
	view, err := uc.DispatchOperation(context.Background(), session.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusDispatched, view.Draft.Status)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "CompleteOperation", mock.Anything, mock.Anything)
}

func TestCompleteRefusedWhileSaving(t *testing.T) {
	// Arrange: outra transição está em voo
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalNotRequired)
	item := session.AddItem()
	fillValidItem(t, session, item.UUID)
	require.True(t, session.beginSave())
	defer session.endSave()

	// Act
	view, err := uc.CompleteOperation(context.Background(), session.ID)

	// Assert: no-op, nenhuma chamada ao backend
	require.NoError(t, err)
	assert.Equal(t, StatusNew, view.Draft.Status)
	client.AssertNotCalled(t, "CreateOperation", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CompleteOperation", mock.Anything, mock.Anything)
}

func TestCompleteWithNoItemsNotifies(t *testing.T) {
	// Arrange
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalNotRequired)

	// Act
	view, err := uc.CompleteOperation(context.Background(), session.ID)

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, view.Notifications)
	assert.Equal(t, NotificationError, view.Notifications[0].Kind)
	assert.Equal(t, "No stock items", view.Notifications[0].Title)
	client.AssertNotCalled(t, "CreateOperation", mock.Anything, mock.Anything)
}

func TestSaveUpdatesExistingDraft(t *testing.T) {
	// Arrange: rascunho já persistido reenvia pelo uuid
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalRequired)
	session.Draft.UUID = "op-7"

	saved := NewStockOperation(OperationTypeReceipt)
	saved.UUID = "op-7"
	client.On("UpdateOperation", mock.Anything, "op-7", mock.Anything).Return(saved, nil)

	// Act
	view, err := uc.SaveOperation(context.Background(), session.ID)

	// Assert: o tri-estado de aprovação da sessão sobrevive ao registro devolvido
	require.NoError(t, err)
	assert.Equal(t, ApprovalRequired, view.Draft.ApprovalRequired)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "CreateOperation", mock.Anything, mock.Anything)
}

func TestSaveIsNoOpWhenLocked(t *testing.T) {
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalNotRequired)
	session.Draft.Status = StatusCompleted

	view, err := uc.SaveOperation(context.Background(), session.ID)

	require.NoError(t, err)
	client.AssertNotCalled(t, "CreateOperation", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "UpdateOperation", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []Action{ActionGoBack}, view.Actions)
}

func TestSubmitForReviewPersistsDraftFirst(t *testing.T) {
	// Arrange: rascunho sem identidade precisa ser salvo antes da submissão
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalRequired)
	item := session.AddItem()
	fillValidItem(t, session, item.UUID)

	saved := NewStockOperation(OperationTypeReceipt)
	saved.UUID = "op-3"
	saved.Items = session.Draft.Items
	client.On("CreateOperation", mock.Anything, mock.Anything).Return(saved, nil)
	client.On("SubmitOperation", mock.Anything, "op-3").Return(nil)

	// Act
	view, err := uc.SubmitForReview(context.Background(), session.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, view.Draft.Status)
	client.AssertExpectations(t)
}

func TestSubmitForReviewSkipsSaveWhenPersisted(t *testing.T) {
	// Arrange
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalRequired)
	session.Draft.UUID = "op-4"
	item := session.AddItem()
	fillValidItem(t, session, item.UUID)

	client.On("SubmitOperation", mock.Anything, "op-4").Return(nil)

	// Act
	view, err := uc.SubmitForReview(context.Background(), session.ID)

	// Assert: submissão direta, sem reenvio do rascunho
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, view.Draft.Status)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "CreateOperation", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "UpdateOperation", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveLineItemPlaceholderIsLocalOnly(t *testing.T) {
	// Arrange
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalUnset)
	item := session.AddItem()

	// Act
	view, err := uc.RemoveLineItem(context.Background(), session.ID, item.UUID)

	// Assert: nenhuma chamada ao backend
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Items)
	client.AssertNotCalled(t, "DeleteOperationItem", mock.Anything, mock.Anything)
}

func TestRemoveLineItemPersistedCallsBackendOnce(t *testing.T) {
	// Arrange
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalUnset)
	session.Draft.UUID = "op-5"
	session.Draft.Items = []StockOperationItem{{UUID: "abc-123"}}

	client.On("DeleteOperationItem", mock.Anything, "abc-123").Return(nil).Once()

	// Act
	view, err := uc.RemoveLineItem(context.Background(), session.ID, "abc-123")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Items)
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "DeleteOperationItem", 1)
}

func TestRemoveLineItemFailureKeepsCollection(t *testing.T) {
	// Arrange: o DELETE falha, a linha continua visível
	client := new(MockStockAPIClient)
	uc, store := newTestUseCase(client)
	session := startSession(t, store, OperationTypeReceipt, ApprovalUnset)
	session.Draft.UUID = "op-6"
	session.Draft.Items = []StockOperationItem{{UUID: "abc-123"}}

	client.On("DeleteOperationItem", mock.Anything, "abc-123").
		Return(&APIError{StatusCode: 409, Messages: []string{"item is referenced by a transaction"}})

	// Act
	view, err := uc.RemoveLineItem(context.Background(), session.ID, "abc-123")

	// Assert
	require.NoError(t, err)
	require.Len(t, view.Draft.Items, 1)
	assert.Equal(t, "abc-123", view.Draft.Items[0].UUID)
	require.NotEmpty(t, view.Notifications)
	assert.Equal(t, NotificationError, view.Notifications[0].Kind)
	assert.Contains(t, view.Notifications[0].Description, "referenced by a transaction")
}

func TestRemoveLineItemFailureNotifiesExactlyOnce(t *testing.T) {
	// Arrange: o aviso de falha pertence à sessão, não ao canal global
	client := new(MockStockAPIClient)
	store := NewSessionStore()
	notifier := &recordingNotifier{}
	uc := NewOperationUseCase(store, client, notifier, otel.Tracer("test"))
	session := startSession(t, store, OperationTypeReceipt, ApprovalUnset)
	session.Draft.UUID = "op-8"
	session.Draft.Items = []StockOperationItem{{UUID: "abc-123"}}

	client.On("DeleteOperationItem", mock.Anything, "abc-123").
		Return(&APIError{StatusCode: 409, Messages: []string{"item is referenced by a transaction"}})

	// Act
	view, err := uc.RemoveLineItem(context.Background(), session.ID, "abc-123")

	// Assert: exatamente uma notificação no total
	require.NoError(t, err)
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, NotificationError, view.Notifications[0].Kind)
	assert.Empty(t, notifier.notifications)
}

func TestDialogActionsRequireReason(t *testing.T) {
	client := new(MockStockAPIClient)
	uc, _ := newTestUseCase(client)
	ctx := context.Background()

	assert.Error(t, uc.ApproveDispatch(ctx, "op-1", ""))
	assert.Error(t, uc.RejectOperation(ctx, "op-1", ""))
	assert.Error(t, uc.ReturnOperation(ctx, "op-1", ""))
	client.AssertNotCalled(t, "ApproveDispatchOperation", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "RejectOperation", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "ReturnOperation", mock.Anything, mock.Anything, mock.Anything)
}

func TestDialogActionsForwardToBackend(t *testing.T) {
	// Arrange
	client := new(MockStockAPIClient)
	uc, _ := newTestUseCase(client)
	ctx := context.Background()

	client.On("ApproveOperation", mock.Anything, "op-1").Return(nil)
	client.On("ApproveDispatchOperation", mock.Anything, "op-1", "goods received").Return(nil)
	client.On("RejectOperation", mock.Anything, "op-1", "wrong quantities").Return(nil)
	client.On("ReturnOperation", mock.Anything, "op-1", "needs corrections").Return(nil)

	// Act / Assert
	assert.NoError(t, uc.ApproveOperation(ctx, "op-1"))
	assert.NoError(t, uc.ApproveDispatch(ctx, "op-1", "goods received"))
	assert.NoError(t, uc.RejectOperation(ctx, "op-1", "wrong quantities"))
	assert.NoError(t, uc.ReturnOperation(ctx, "op-1", "needs corrections"))
	client.AssertExpectations(t)
}

func TestDialogActionErrorIsPropagated(t *testing.T) {
	client := new(MockStockAPIClient)
	uc, _ := newTestUseCase(client)

	backendErr := errors.New("connection refused")
	client.On("ApproveOperation", mock.Anything, "op-1").Return(backendErr)

	err := uc.ApproveOperation(context.Background(), "op-1")
	assert.ErrorIs(t, err, backendErr)
}
