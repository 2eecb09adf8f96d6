package main

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockOperation representa uma operação de estoque em edição ou já persistida
type StockOperation struct {
	UUID              string               `json:"uuid,omitempty"`
	OperationNumber   string               `json:"operationNumber,omitempty"`
	OperationType     string               `json:"operationType"`
	Status            string               `json:"status,omitempty"`
	SourceUUID        string               `json:"sourceUuid,omitempty"`
	SourceName        string               `json:"sourceName,omitempty"`
	DestinationUUID   string               `json:"destinationUuid,omitempty"`
	DestinationName   string               `json:"destinationName,omitempty"`
	RecipientUUID     string               `json:"recipientUuid,omitempty"`
	RecipientName     string               `json:"recipientName,omitempty"`
	ResponsiblePerson string               `json:"responsiblePersonUuid,omitempty"`
	Remarks           string               `json:"remarks,omitempty"`
	OperationDate     *time.Time           `json:"operationDate,omitempty"`
	DateCreated       *time.Time           `json:"dateCreated,omitempty"`
	CreatedBy         string               `json:"creatorName,omitempty"`
	DateChanged       *time.Time           `json:"dateChanged,omitempty"`
	ChangedBy         string               `json:"changedByName,omitempty"`
	ApprovalRequired  ApprovalState        `json:"approvalRequired,omitempty"`
	Items             []StockOperationItem `json:"stockOperationItems"`
}

// StockOperationItem representa uma linha de item dentro de uma operação
type StockOperationItem struct {
	UUID              string           `json:"uuid"`
	StockItemUUID     string           `json:"stockItemUuid,omitempty"`
	StockItemName     string           `json:"stockItemName,omitempty"`
	PackagingUnitUUID string           `json:"stockItemPackagingUOMUuid,omitempty"`
	PackagingUnitName string           `json:"stockItemPackagingUOMName,omitempty"`
	Quantity          *decimal.Decimal `json:"quantity,omitempty"`
	QuantityRequested *decimal.Decimal `json:"quantityRequested,omitempty"`
	BatchNo           string           `json:"batchNo,omitempty"`
	Expiration        *time.Time       `json:"expiration,omitempty"`
	PurchasePrice     *decimal.Decimal `json:"purchasePrice,omitempty"`
}

// Status possíveis de uma operação de estoque
const (
	StatusNew        = "NEW"
	StatusSubmitted  = "SUBMITTED"
	StatusDispatched = "DISPATCHED"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
	StatusRejected   = "REJECTED"
	StatusReturned   = "RETURNED"
)

// ApprovalState representa a resposta tri-estado de "requer aprovação?"
// O zero value é ApprovalUnset: enquanto o usuário não escolher, nenhuma
// transição além de salvar fica disponível.
type ApprovalState string

const (
	ApprovalUnset       ApprovalState = ""
	ApprovalRequired    ApprovalState = "REQUIRED"
	ApprovalNotRequired ApprovalState = "NOT_REQUIRED"
)

// PlaceholderPrefix marca itens ainda não persistidos no backend
const PlaceholderPrefix = "new-item-"

var (
	ErrOperationLocked  = errors.New("operation is locked and can no longer be edited")
	ErrApprovalUnset    = errors.New("approval requirement has not been answered yet")
	ErrNoStockItems     = errors.New("operation has no stock items")
	ErrItemNotFound     = errors.New("stock operation item not found")
	ErrEditNotPermitted = errors.New("caller is not allowed to edit this operation")
)

// NewStockOperation cria uma nova instância de StockOperation ainda não persistida
func NewStockOperation(operationType string) *StockOperation {
	return &StockOperation{
		OperationType:    operationType,
		Status:           StatusNew,
		ApprovalRequired: ApprovalUnset,
		Items:            []StockOperationItem{},
	}
}

// IsPersisted indica se a operação já existe no backend
func (o *StockOperation) IsPersisted() bool {
	return o.UUID != ""
}

// IsLocked indica se a operação atingiu um status terminal e ficou imutável
func (o *StockOperation) IsLocked() bool {
	switch o.Status {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusReturned:
		return true
	}
	return false
}

// IsPlaceholder indica se o item ainda usa identidade local (não persistida)
func (i StockOperationItem) IsPlaceholder() bool {
	return strings.HasPrefix(i.UUID, PlaceholderPrefix)
}

// SaveOperationPayload é o corpo enviado ao backend ao salvar uma operação.
// Os campos atribuídos pelo servidor (status, dateCreated) simplesmente não
// existem aqui: o payload é construído do zero a partir do rascunho, nunca
// mutando o rascunho em si.
type SaveOperationPayload struct {
	OperationType     string               `json:"operationType"`
	SourceUUID        string               `json:"sourceUuid,omitempty"`
	DestinationUUID   string               `json:"destinationUuid,omitempty"`
	RecipientUUID     string               `json:"recipientUuid,omitempty"`
	ResponsiblePerson string               `json:"responsiblePersonUuid,omitempty"`
	Remarks           string               `json:"remarks,omitempty"`
	OperationDate     *time.Time           `json:"operationDate,omitempty"`
	Items             []StockOperationItem `json:"stockOperationItems"`
}

// buildSavePayload constrói o corpo de salvamento a partir do rascunho.
// Função pura: apenas lê campos do rascunho.
func buildSavePayload(o *StockOperation) SaveOperationPayload {
	items := make([]StockOperationItem, len(o.Items))
	copy(items, o.Items)
	return SaveOperationPayload{
		OperationType:     o.OperationType,
		SourceUUID:        o.SourceUUID,
		DestinationUUID:   o.DestinationUUID,
		RecipientUUID:     o.RecipientUUID,
		ResponsiblePerson: o.ResponsiblePerson,
		Remarks:           o.Remarks,
		OperationDate:     o.OperationDate,
		Items:             items,
	}
}
