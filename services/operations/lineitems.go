package main

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// LineItemPatch carrega os campos alterados de uma linha pela UI.
// Campos nil não foram tocados.
type LineItemPatch struct {
	StockItemUUID     *string          `json:"stockItemUuid"`
	StockItemName     *string          `json:"stockItemName"`
	PackagingUnitUUID *string          `json:"stockItemPackagingUOMUuid"`
	PackagingUnitName *string          `json:"stockItemPackagingUOMName"`
	Quantity          *decimal.Decimal `json:"quantity"`
	QuantityRequested *decimal.Decimal `json:"quantityRequested"`
	BatchNo           *string          `json:"batchNo"`
	Expiration        *time.Time       `json:"expiration"`
	PurchasePrice     *decimal.Decimal `json:"purchasePrice"`
}

// AddItem acrescenta uma nova linha com identidade placeholder gerada pela
// sessão. Operação puramente local: nenhuma chamada ao backend. A mutação
// inteira roda sob o mutex da sessão, então adições concorrentes nunca
// colidem nem perdem linhas.
func (s *EditingSession) AddItem() StockOperationItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := StockOperationItem{UUID: s.nextPlaceholderID()}
	s.Draft.Items = append(s.Draft.Items, item)
	return item
}

// findItem localiza a posição de uma linha pelo uuid. O chamador segura s.mu.
func (s *EditingSession) findItem(itemUUID string) (int, bool) {
	for i := range s.Draft.Items {
		if s.Draft.Items[i].UUID == itemUUID {
			return i, true
		}
	}
	return -1, false
}

// Item devolve uma cópia de uma linha pelo uuid
func (s *EditingSession) Item(itemUUID string) (StockOperationItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findItem(itemUUID)
	if !ok {
		return StockOperationItem{}, false
	}
	return s.Draft.Items[idx], true
}

// removeItemLocal tira a linha da coleção local da sessão
func (s *EditingSession) removeItemLocal(itemUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findItem(itemUUID)
	if !ok {
		return ErrItemNotFound
	}
	s.Draft.Items = append(s.Draft.Items[:idx], s.Draft.Items[idx+1:]...)
	delete(s.fieldErrors, itemUUID)
	return nil
}

// UpdateItem aplica um patch de campos a uma linha, validando campo a campo
// contra o esquema condicionado pelo descritor. Um campo inválido acumula um
// erro naquele campo e não impede a edição dos demais.
func (s *EditingSession) UpdateItem(itemUUID string, patch LineItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findItem(itemUUID)
	if !ok {
		return ErrItemNotFound
	}
	item := &s.Draft.Items[idx]

	if patch.StockItemUUID != nil {
		if *patch.StockItemUUID == "" {
			s.setFieldError(itemUUID, "stockItemUuid", t("itemRequired", "Stock item is required"))
		} else {
			s.clearFieldError(itemUUID, "stockItemUuid")
			item.StockItemUUID = *patch.StockItemUUID
		}
	}
	if patch.StockItemName != nil {
		item.StockItemName = *patch.StockItemName
	}
	if patch.PackagingUnitUUID != nil {
		if *patch.PackagingUnitUUID == "" {
			s.setFieldError(itemUUID, "stockItemPackagingUOMUuid", t("uomRequired", "Packaging unit is required"))
		} else {
			s.clearFieldError(itemUUID, "stockItemPackagingUOMUuid")
			item.PackagingUnitUUID = *patch.PackagingUnitUUID
		}
	}
	if patch.PackagingUnitName != nil {
		item.PackagingUnitName = *patch.PackagingUnitName
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity, s.Descriptor); err != "" {
			s.setFieldError(itemUUID, "quantity", err)
		} else {
			s.clearFieldError(itemUUID, "quantity")
			q := *patch.Quantity
			item.Quantity = &q
		}
	}
	if patch.QuantityRequested != nil && s.Descriptor.HasQuantityRequested {
		q := *patch.QuantityRequested
		item.QuantityRequested = &q
	}
	if patch.BatchNo != nil {
		if *patch.BatchNo == "" && (s.Descriptor.RequiresBatchNumbers || s.Descriptor.RequiresActualBatchInfo) {
			s.setFieldError(itemUUID, "batchNo", t("batchRequired", "Batch number is required"))
		} else {
			s.clearFieldError(itemUUID, "batchNo")
			item.BatchNo = *patch.BatchNo
		}
	}
	if patch.Expiration != nil {
		s.clearFieldError(itemUUID, "expiration")
		exp := *patch.Expiration
		item.Expiration = &exp
	}
	if patch.PurchasePrice != nil && s.Descriptor.CanCapturePurchasePrice {
		p := *patch.PurchasePrice
		item.PurchasePrice = &p
	}
	return nil
}

// validateQuantity valida a quantidade conforme o tipo de operação: positiva
// por padrão; operações de saída registram deltas com sinal, onde negativo
// denota movimento de saída.
func validateQuantity(q decimal.Decimal, d OperationTypeDescriptor) string {
	if q.IsZero() {
		return t("quantityRequired", "Quantity is required")
	}
	if q.IsNegative() && !d.NegativeQuantityAllowed {
		return t("quantityPositive", "Quantity must be a positive number")
	}
	return ""
}

// validateForSubmission confere que toda linha resolve um par item+unidade
// válido antes da submissão, além dos campos condicionais do descritor.
func (s *EditingSession) validateForSubmission() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Draft.Items) == 0 {
		return ErrNoStockItems
	}
	for _, item := range s.Draft.Items {
		if item.StockItemUUID == "" {
			s.setFieldError(item.UUID, "stockItemUuid", t("itemRequired", "Stock item is required"))
		}
		if item.PackagingUnitUUID == "" {
			s.setFieldError(item.UUID, "stockItemPackagingUOMUuid", t("uomRequired", "Packaging unit is required"))
		}
		if item.Quantity == nil {
			s.setFieldError(item.UUID, "quantity", t("quantityRequired", "Quantity is required"))
		}
		if (s.Descriptor.RequiresBatchNumbers || s.Descriptor.RequiresActualBatchInfo) && item.BatchNo == "" {
			s.setFieldError(item.UUID, "batchNo", t("batchRequired", "Batch number is required"))
		}
		if s.Descriptor.RequiresActualBatchInfo && item.Expiration == nil {
			s.setFieldError(item.UUID, "expiration", t("expiryRequired", "Expiry date is required"))
		}
	}
	if len(s.fieldErrors) > 0 {
		return errLineItemsInvalid
	}
	return nil
}

var errLineItemsInvalid = errors.New("one or more stock items are invalid")
