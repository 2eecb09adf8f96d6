package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ReportsAPIClient abstrai os endpoints de leitura do backend de estoque
type ReportsAPIClient interface {
	GetTransactions(ctx context.Context, stockItemUUID string, startIndex, limit int) ([]StockItemTransaction, int, error)
	GetUserRoleScopes(ctx context.Context, startIndex, limit int) ([]UserRoleScope, int, error)
	GetIssuingOperations(ctx context.Context, locationUUID string) ([]StockOperationSummary, error)
	GetReceivingOperations(ctx context.Context, locationUUID string) ([]StockOperationSummary, error)
}

// APIError representa uma falha HTTP do backend com as mensagens extraídas
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	msg := ""
	for i, m := range e.Messages {
		if i > 0 {
			msg += ", "
		}
		msg += m
	}
	return fmt.Sprintf("stock api returned %d: %s", e.StatusCode, msg)
}

// backendErrorBody é o envelope de erro do backend de estoque
type backendErrorBody struct {
	Error struct {
		Message      string `json:"message"`
		GlobalErrors []struct {
			Message string `json:"message"`
		} `json:"globalErrors"`
	} `json:"error"`
}

func extractErrorMessages(body []byte) []string {
	var parsed backendErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return []string{string(body)}
	}
	var messages []string
	if parsed.Error.Message != "" {
		messages = append(messages, parsed.Error.Message)
	}
	for _, g := range parsed.Error.GlobalErrors {
		messages = append(messages, g.Message)
	}
	if len(messages) == 0 {
		messages = []string{"unexpected error"}
	}
	return messages
}

// resultPage é o envelope de listagem do backend
type resultPage[T any] struct {
	Results    []T `json:"results"`
	TotalCount int `json:"totalCount"`
}

// RestReportsAPIClient implementa ReportsAPIClient sobre o backend REST
type RestReportsAPIClient struct {
	http *resty.Client
}

// NewRestReportsAPIClient cria uma nova instância de RestReportsAPIClient
func NewRestReportsAPIClient(baseURL string) *RestReportsAPIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	return &RestReportsAPIClient{http: client}
}

func apiErrorFrom(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Messages:   extractErrorMessages(resp.Body()),
	}
}

// GetTransactions busca uma página de movimentos de um item de estoque
func (c *RestReportsAPIClient) GetTransactions(ctx context.Context, stockItemUUID string, startIndex, limit int) ([]StockItemTransaction, int, error) {
	var out resultPage[StockItemTransaction]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"stockItemUuid": stockItemUUID,
			"startIndex":    strconv.Itoa(startIndex),
			"limit":         strconv.Itoa(limit),
			"totalCount":    "true",
		}).
		SetResult(&out).
		Get("/stockitemtransaction")
	if err != nil {
		return nil, 0, fmt.Errorf("fetching stock item transactions: %w", err)
	}
	if resp.IsError() {
		return nil, 0, apiErrorFrom(resp)
	}
	return out.Results, out.TotalCount, nil
}

// GetUserRoleScopes busca uma página de escopos de papel de usuário
func (c *RestReportsAPIClient) GetUserRoleScopes(ctx context.Context, startIndex, limit int) ([]UserRoleScope, int, error) {
	var out resultPage[UserRoleScope]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"startIndex": strconv.Itoa(startIndex),
			"limit":      strconv.Itoa(limit),
			"totalCount": "true",
		}).
		SetResult(&out).
		Get("/userrolescope")
	if err != nil {
		return nil, 0, fmt.Errorf("fetching user role scopes: %w", err)
	}
	if resp.IsError() {
		return nil, 0, apiErrorFrom(resp)
	}
	return out.Results, out.TotalCount, nil
}

// getOperations busca operações resumidas filtradas por origem ou destino
func (c *RestReportsAPIClient) getOperations(ctx context.Context, partyField, locationUUID string) ([]StockOperationSummary, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("v", "full").
		SetQueryParam("totalCount", "true")
	if locationUUID != "" {
		req.SetQueryParam(partyField, locationUUID)
	}
	var out resultPage[StockOperationSummary]
	resp, err := req.SetResult(&out).Get("/stockoperation")
	if err != nil {
		return nil, fmt.Errorf("fetching stock operations: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return out.Results, nil
}

// GetIssuingOperations busca as operações em que o local é a origem
func (c *RestReportsAPIClient) GetIssuingOperations(ctx context.Context, locationUUID string) ([]StockOperationSummary, error) {
	return c.getOperations(ctx, "sourceUuid", locationUUID)
}

// GetReceivingOperations busca as operações em que o local é o destino
func (c *RestReportsAPIClient) GetReceivingOperations(ctx context.Context, locationUUID string) ([]StockOperationSummary, error) {
	return c.getOperations(ctx, "destinationUuid", locationUUID)
}
