package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReportsUseCase contém a lógica de projeção das telas de leitura
type ReportsUseCase struct {
	client ReportsAPIClient
	tracer trace.Tracer
}

// NewReportsUseCase cria uma nova instância de ReportsUseCase
func NewReportsUseCase(client ReportsAPIClient, tracer trace.Tracer) *ReportsUseCase {
	return &ReportsUseCase{
		client: client,
		tracer: tracer,
	}
}

// TransactionsView é a página de movimentos projetada para exibição.
// Busca vazia devolve a mensagem explícita, nunca um erro.
type TransactionsView struct {
	Rows       []TransactionRow `json:"rows"`
	Pagination PageMeta         `json:"pagination"`
	Message    string           `json:"message,omitempty"`
}

// Transactions busca e projeta uma página de movimentos de um item de estoque
func (uc *ReportsUseCase) Transactions(ctx context.Context, stockItemUUID string, page, pageSize int) (*TransactionsView, error) {
	ctx, span := uc.tracer.Start(ctx, "project_transactions")
	defer span.End()
	span.SetAttributes(attribute.String("stock_item_uuid", stockItemUUID))

	page, pageSize = normalizePaging(page, pageSize)
	txs, total, err := uc.client.GetTransactions(ctx, stockItemUUID, startIndexFor(page, pageSize), pageSize)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch transactions for item %s: %v", stockItemUUID, err)
		return nil, err
	}

	view := &TransactionsView{
		Rows:       ProjectTransactions(txs),
		Pagination: PageMeta{Page: page, PageSize: pageSize, TotalCount: total},
	}
	if len(view.Rows) == 0 {
		view.Message = t("noTransactions", "No transactions to display")
	}
	return view, nil
}

// RoleScopesView é a página de escopos de papel projetada para exibição
type RoleScopesView struct {
	Rows       []RoleScopeRow `json:"rows"`
	Pagination PageMeta       `json:"pagination"`
	Message    string         `json:"message,omitempty"`
}

// RoleScopes busca e projeta uma página de escopos de papel de usuário
func (uc *ReportsUseCase) RoleScopes(ctx context.Context, page, pageSize int) (*RoleScopesView, error) {
	ctx, span := uc.tracer.Start(ctx, "project_role_scopes")
	defer span.End()

	page, pageSize = normalizePaging(page, pageSize)
	scopes, total, err := uc.client.GetUserRoleScopes(ctx, startIndexFor(page, pageSize), pageSize)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch user role scopes: %v", err)
		return nil, err
	}

	view := &RoleScopesView{
		Rows:       ProjectRoleScopes(scopes),
		Pagination: PageMeta{Page: page, PageSize: pageSize, TotalCount: total},
	}
	if len(view.Rows) == 0 {
		view.Message = t("noRoleScopes", "No Stock User scopes to display")
	}
	return view, nil
}

// HomeCardsView é o conjunto de cartões de uma seção da tela inicial
type HomeCardsView struct {
	Cards      []HomeCardRow `json:"cards"`
	ViewAllURL string        `json:"viewAllUrl"`
	Message    string        `json:"message,omitempty"`
}

// IssuingCards monta os cartões de saída da tela inicial
func (uc *ReportsUseCase) IssuingCards(ctx context.Context, locationUUID string) (*HomeCardsView, error) {
	ctx, span := uc.tracer.Start(ctx, "project_issuing_cards")
	defer span.End()

	ops, err := uc.client.GetIssuingOperations(ctx, locationUUID)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch issuing operations: %v", err)
		return nil, err
	}
	view := &HomeCardsView{
		Cards:      BuildHomeCards(ops, homeCardLimit),
		ViewAllURL: "/stock-management/requisitions",
	}
	if len(view.Cards) == 0 {
		view.Message = t("issuingNull", "No issued to display")
	}
	return view, nil
}

// ReceivingCards monta os cartões de entrada da tela inicial
func (uc *ReportsUseCase) ReceivingCards(ctx context.Context, locationUUID string) (*HomeCardsView, error) {
	ctx, span := uc.tracer.Start(ctx, "project_receiving_cards")
	defer span.End()

	ops, err := uc.client.GetReceivingOperations(ctx, locationUUID)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch receiving operations: %v", err)
		return nil, err
	}
	view := &HomeCardsView{
		Cards:      BuildHomeCards(ops, homeCardLimit),
		ViewAllURL: "/stock-management/orders",
	}
	if len(view.Cards) == 0 {
		view.Message = t("receivingNull", "No received to display")
	}
	return view, nil
}
