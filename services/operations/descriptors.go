package main

import "fmt"

// OperationTypeDescriptor descreve as capacidades estáticas de um tipo de
// operação de estoque. O descritor é imutável durante toda a vida de um
// rascunho; trocar o tipo exige descartar a sessão e abrir outra.
type OperationTypeDescriptor struct {
	OperationType                   string `json:"operationType"`
	Name                            string `json:"name"`
	HasSource                       bool   `json:"hasSource"`
	SourceMandatory                 bool   `json:"sourceMandatory"`
	HasDestination                  bool   `json:"hasDestination"`
	DestinationMandatory            bool   `json:"destinationMandatory"`
	HasRecipient                    bool   `json:"hasRecipient"`
	RecipientRequired               bool   `json:"recipientRequired"`
	RequiresBatchNumbers            bool   `json:"requiresBatchNumbers"`
	RequiresActualBatchInfo         bool   `json:"requiresActualBatchInfo"`
	HasQuantityRequested            bool   `json:"hasQuantityRequested"`
	CanCapturePurchasePrice         bool   `json:"canCapturePurchasePrice"`
	RequiresDispatchAcknowledgement bool   `json:"requiresDispatchAcknowledgement"`
	NegativeQuantityAllowed         bool   `json:"negativeQuantityAllowed"`
}

// Tipos de operação de estoque suportados
const (
	OperationTypeReceipt     = "receiptoperation"
	OperationTypeIssue       = "stockissueoperation"
	OperationTypeTransferOut = "transferoutoperation"
	OperationTypeAdjustment  = "adjustmentoperation"
	OperationTypeRequisition = "requisitionoperation"
	OperationTypeReturn      = "returnoperation"
	OperationTypeDisposal    = "disposedoperation"
	OperationTypeStockTake   = "stocktakeoperation"
	OperationTypeInitial     = "initialoperation"
)

// ErrUnknownOperationType indica um tipo de operação sem descritor registrado.
// Sem descritor não há como montar o formulário, então a sessão não abre.
var ErrUnknownOperationType = fmt.Errorf("unknown stock operation type")

var operationTypeDescriptors = map[string]OperationTypeDescriptor{
	OperationTypeReceipt: {
		OperationType:           OperationTypeReceipt,
		Name:                    "Receipt",
		HasSource:               true,
		SourceMandatory:         true,
		HasDestination:          true,
		DestinationMandatory:    true,
		RequiresActualBatchInfo: true,
		CanCapturePurchasePrice: true,
	},
	OperationTypeIssue: {
		OperationType:                   OperationTypeIssue,
		Name:                            "Stock Issue",
		HasSource:                       true,
		SourceMandatory:                 true,
		HasDestination:                  true,
		DestinationMandatory:            true,
		RequiresBatchNumbers:            true,
		RequiresDispatchAcknowledgement: true,
		NegativeQuantityAllowed:         true,
	},
	OperationTypeTransferOut: {
		OperationType:                   OperationTypeTransferOut,
		Name:                            "Transfer Out",
		HasSource:                       true,
		SourceMandatory:                 true,
		HasDestination:                  true,
		DestinationMandatory:            true,
		RequiresBatchNumbers:            true,
		RequiresDispatchAcknowledgement: true,
	},
	OperationTypeAdjustment: {
		OperationType:           OperationTypeAdjustment,
		Name:                    "Adjustment",
		HasSource:               true,
		SourceMandatory:         true,
		RequiresBatchNumbers:    true,
		NegativeQuantityAllowed: true,
	},
	OperationTypeRequisition: {
		OperationType:        OperationTypeRequisition,
		Name:                 "Requisition",
		HasSource:            true,
		SourceMandatory:      true,
		HasDestination:       true,
		DestinationMandatory: true,
		HasQuantityRequested: true,
	},
	OperationTypeReturn: {
		OperationType:        OperationTypeReturn,
		Name:                 "Return",
		HasSource:            true,
		SourceMandatory:      true,
		HasDestination:       true,
		DestinationMandatory: true,
		RequiresBatchNumbers: true,
	},
	OperationTypeDisposal: {
		OperationType:           OperationTypeDisposal,
		Name:                    "Disposal",
		HasSource:               true,
		SourceMandatory:         true,
		HasRecipient:            true,
		RequiresBatchNumbers:    true,
		NegativeQuantityAllowed: true,
	},
	OperationTypeStockTake: {
		OperationType:           OperationTypeStockTake,
		Name:                    "Stock Take",
		HasSource:               true,
		SourceMandatory:         true,
		RequiresBatchNumbers:    true,
		NegativeQuantityAllowed: true,
	},
	OperationTypeInitial: {
		OperationType:           OperationTypeInitial,
		Name:                    "Initial Stock",
		HasDestination:          true,
		DestinationMandatory:    true,
		RequiresActualBatchInfo: true,
		CanCapturePurchasePrice: true,
	},
}

// DescriptorFor retorna o descritor estático de um tipo de operação.
// Lookup puro, sem efeitos colaterais.
func DescriptorFor(operationType string) (OperationTypeDescriptor, error) {
	d, ok := operationTypeDescriptors[operationType]
	if !ok {
		return OperationTypeDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownOperationType, operationType)
	}
	return d, nil
}
