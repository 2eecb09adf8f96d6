package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockOperation(t *testing.T) {
	// Arrange / Act
	op := NewStockOperation(OperationTypeReceipt)

	// Assert
	if op.Status != StatusNew {
		t.Errorf("Expected status %s, got %s", StatusNew, op.Status)
	}
	if op.ApprovalRequired != ApprovalUnset {
		t.Errorf("Expected approval to start unset, got %s", op.ApprovalRequired)
	}
	if op.UUID != "" {
		t.Errorf("Expected no uuid before persisting, got %s", op.UUID)
	}
	if len(op.Items) != 0 {
		t.Errorf("Expected empty item list, got %d items", len(op.Items))
	}
}

func TestIsLocked(t *testing.T) {
	cases := []struct {
		status string
		locked bool
	}{
		{StatusNew, false},
		{StatusSubmitted, false},
		{StatusDispatched, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{StatusRejected, true},
		{StatusReturned, true},
	}

	for _, tc := range cases {
		op := NewStockOperation(OperationTypeReceipt)
		op.Status = tc.status
		assert.Equal(t, tc.locked, op.IsLocked(), "status %s", tc.status)
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, StockOperationItem{UUID: "new-item-2"}.IsPlaceholder())
	assert.False(t, StockOperationItem{UUID: "abc-123"}.IsPlaceholder())
}

func TestBuildSavePayloadOmitsServerAssignedFields(t *testing.T) {
	// Arrange
	now := time.Now()
	qty := decimal.NewFromInt(5)
	op := NewStockOperation(OperationTypeReceipt)
	op.UUID = "op-1"
	op.Status = StatusNew
	op.DateCreated = &now
	op.SourceUUID = "src-1"
	op.DestinationUUID = "dst-1"
	op.Items = []StockOperationItem{{UUID: "item-1", StockItemUUID: "si-1", Quantity: &qty}}

	// Act
	payload := buildSavePayload(op)
	raw, err := json.Marshal(payload)

	// Assert: status e dateCreated nunca aparecem no corpo enviado
	require.NoError(t, err)
	var asMap map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &asMap))
	assert.NotContains(t, asMap, "status")
	assert.NotContains(t, asMap, "dateCreated")
	assert.Equal(t, "src-1", asMap["sourceUuid"])

	// O rascunho original não é mutado
	assert.Equal(t, StatusNew, op.Status)
	assert.NotNil(t, op.DateCreated)
}

func TestBuildSavePayloadCopiesItems(t *testing.T) {
	// Arrange
	op := NewStockOperation(OperationTypeReceipt)
	op.Items = []StockOperationItem{{UUID: "item-1"}}

	// Act
	payload := buildSavePayload(op)
	payload.Items[0].UUID = "mutated"

	// Assert
	assert.Equal(t, "item-1", op.Items[0].UUID)
}

func TestDescriptorFor(t *testing.T) {
	// Act
	d, err := DescriptorFor(OperationTypeIssue)

	// Assert
	require.NoError(t, err)
	assert.True(t, d.RequiresDispatchAcknowledgement)
	assert.True(t, d.NegativeQuantityAllowed)
	assert.True(t, d.RequiresBatchNumbers)
}

func TestDescriptorForUnknownType(t *testing.T) {
	// Act
	_, err := DescriptorFor("teleportoperation")

	// Assert: sem descritor a sessão de edição não pode abrir
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOperationType)
}

func TestDescriptorRegistryCoversAllOperationTypes(t *testing.T) {
	for _, opType := range []string{
		OperationTypeReceipt,
		OperationTypeIssue,
		OperationTypeTransferOut,
		OperationTypeAdjustment,
		OperationTypeRequisition,
		OperationTypeReturn,
		OperationTypeDisposal,
		OperationTypeStockTake,
		OperationTypeInitial,
	} {
		_, err := DescriptorFor(opType)
		assert.NoError(t, err, "descriptor missing for %s", opType)
	}
}
