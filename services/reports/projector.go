package main

import (
	"strings"
	"time"
)

const displayDateLayout = "02-Jan-2006"

// formatDisplayDate formata uma data para exibição; nil vira string vazia
func formatDisplayDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(displayDateLayout)
}

// TransactionRow é a linha de exibição de um movimento de estoque
type TransactionRow struct {
	UUID         string `json:"uuid"`
	Date         string `json:"date"`
	Location     string `json:"location"`
	Transaction  string `json:"transaction"`
	Quantity     string `json:"quantity"`
	Batch        string `json:"batch"`
	Reference    string `json:"reference"`
	ReferenceURL string `json:"referenceUrl,omitempty"`
	Status       string `json:"status"`
	In           string `json:"in"`
	Out          string `json:"out"`
}

// formatQuantity monta "<quantidade> <unidade>" para exibição
func formatQuantity(tx StockItemTransaction) string {
	return strings.TrimSpace(tx.Quantity.String() + " " + tx.PackagingUomName)
}

// locationCell monta a célula de localização "de → para". Com os dois nomes de
// parte presentes, o nome de parte do próprio registro escolhe o lado "de".
// TODO: a direção da seta ignora o sinal da quantidade deliberadamente;
// confirmar com o produto se ela deveria inverter para quantidades negativas
// antes de mudar isto.
func locationCell(tx StockItemTransaction) string {
	if tx.OperationSourcePartyName == "" || tx.OperationDestinationPartyName == "" {
		return tx.PartyName
	}
	switch tx.PartyName {
	case tx.OperationSourcePartyName:
		return tx.OperationSourcePartyName + " → " + tx.OperationDestinationPartyName
	case tx.OperationDestinationPartyName:
		return tx.OperationDestinationPartyName + " → " + tx.OperationSourcePartyName
	}
	return tx.PartyName
}

// transactionName devolve o nome do movimento; dispensas a paciente ganham o
// rótulo fixo "Patient Dispense" no lugar do nome do tipo de operação
func transactionName(tx StockItemTransaction) string {
	if tx.IsPatientTransaction {
		return "Patient Dispense"
	}
	return tx.StockOperationTypeName
}

// batchCell monta "lote (validade)"; sem lote a célula fica vazia
func batchCell(tx StockItemTransaction) string {
	if tx.StockBatchNo == "" {
		return ""
	}
	if tx.Expiration == nil {
		return tx.StockBatchNo
	}
	return tx.StockBatchNo + " (" + formatDisplayDate(tx.Expiration) + ")"
}

// ProjectTransaction projeta um movimento de estoque em linha de exibição.
// Função pura: entrada → saída, sem estado.
func ProjectTransaction(tx StockItemTransaction) TransactionRow {
	row := TransactionRow{
		UUID:        tx.UUID,
		Date:        formatDisplayDate(tx.DateCreated),
		Location:    locationCell(tx),
		Transaction: transactionName(tx),
		Quantity:    formatQuantity(tx),
		Batch:       batchCell(tx),
		Status:      tx.StockOperationStatus,
	}

	// Entrada quando a quantidade é não-negativa; saída com o sinal removido
	if tx.Quantity.IsNegative() {
		out := tx
		out.Quantity = tx.Quantity.Abs()
		row.Out = formatQuantity(out)
	} else {
		row.In = formatQuantity(tx)
	}

	// A referência só vira link quando o movimento tem operação associada
	if tx.StockOperationUUID != "" {
		row.Reference = tx.StockOperationNumber
		row.ReferenceURL = operationURL(tx.StockOperationUUID)
	}
	return row
}

// ProjectTransactions projeta a página inteira de movimentos
func ProjectTransactions(txs []StockItemTransaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, ProjectTransaction(tx))
	}
	return rows
}

// RoleScopeRow é a linha de exibição de um escopo de papel de usuário
type RoleScopeRow struct {
	UUID            string `json:"uuid"`
	User            string `json:"user"`
	RoleName        string `json:"roleName"`
	Locations       string `json:"locations"`
	StockOperations string `json:"stockOperations"`
	Permanent       string `json:"permanent"`
	ActiveFrom      string `json:"activeFrom"`
	ActiveTo        string `json:"activeTo"`
	Enabled         string `json:"enabled"`
}

func yesNo(v bool) string {
	if v {
		return t("yes", "Yes")
	}
	return t("no", "No")
}

// ProjectRoleScope projeta um escopo de papel em linha de exibição
func ProjectRoleScope(scope UserRoleScope) RoleScopeRow {
	locations := make([]string, 0, len(scope.Locations))
	for _, l := range scope.Locations {
		locations = append(locations, l.LocationName)
	}
	operations := make([]string, 0, len(scope.OperationTypes))
	for _, o := range scope.OperationTypes {
		operations = append(operations, o.OperationTypeName)
	}
	return RoleScopeRow{
		UUID:            scope.UUID,
		User:            strings.TrimSpace(scope.UserFamilyName + " " + scope.UserGivenName),
		RoleName:        scope.Role,
		Locations:       strings.Join(locations, ", "),
		StockOperations: strings.Join(operations, ", "),
		Permanent:       yesNo(scope.Permanent),
		ActiveFrom:      formatDisplayDate(scope.ActiveFrom),
		ActiveTo:        formatDisplayDate(scope.ActiveTo),
		Enabled:         yesNo(scope.Enabled),
	}
}

// ProjectRoleScopes projeta a página inteira de escopos
func ProjectRoleScopes(scopes []UserRoleScope) []RoleScopeRow {
	rows := make([]RoleScopeRow, 0, len(scopes))
	for _, scope := range scopes {
		rows = append(rows, ProjectRoleScope(scope))
	}
	return rows
}

// HomeCardRow é um cartão "status · origem · destino / item, unidade, qtde"
// da tela inicial
type HomeCardRow struct {
	Status            string `json:"status"`
	SourceName        string `json:"sourceName"`
	DestinationName   string `json:"destinationName"`
	StockItemName     string `json:"stockItemName"`
	PackagingUnitName string `json:"stockItemPackagingUOMName"`
	Quantity          string `json:"quantity"`
}

// homeCardLimit limita os cartões exibidos na tela inicial
const homeCardLimit = 10

// BuildHomeCards achata operações × linhas em cartões, respeitando o limite
func BuildHomeCards(ops []StockOperationSummary, limit int) []HomeCardRow {
	cards := []HomeCardRow{}
	for _, op := range ops {
		for _, item := range op.Items {
			if len(cards) == limit {
				return cards
			}
			cards = append(cards, HomeCardRow{
				Status:            op.Status,
				SourceName:        op.SourceName,
				DestinationName:   op.DestinationName,
				StockItemName:     item.StockItemName,
				PackagingUnitName: item.PackagingUnitName,
				Quantity:          item.Quantity.String(),
			})
		}
	}
	return cards
}

// operationURL devolve o destino de navegação de uma operação
func operationURL(uuid string) string {
	return "/stock-management/stock-operations/" + uuid
}
