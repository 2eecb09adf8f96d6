package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// StockAPIClient abstrai os endpoints REST do backend de estoque consumidos
// por este serviço. O backend é um colaborador opaco: falhas chegam como
// respostas HTTP de erro com uma lista de mensagens extraível.
type StockAPIClient interface {
	GetOperation(ctx context.Context, uuid string) (*StockOperation, error)
	CreateOperation(ctx context.Context, payload SaveOperationPayload) (*StockOperation, error)
	UpdateOperation(ctx context.Context, uuid string, payload SaveOperationPayload) (*StockOperation, error)
	CompleteOperation(ctx context.Context, uuid string) error
	DispatchOperation(ctx context.Context, uuid string) error
	SubmitOperation(ctx context.Context, uuid string) error
	ApproveOperation(ctx context.Context, uuid string) error
	ApproveDispatchOperation(ctx context.Context, uuid, reason string) error
	RejectOperation(ctx context.Context, uuid, reason string) error
	ReturnOperation(ctx context.Context, uuid, reason string) error
	DeleteOperationItem(ctx context.Context, itemUUID string) error
}

// APIError representa uma falha HTTP do backend com as mensagens extraídas
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stock api returned %d: %s", e.StatusCode, strings.Join(e.Messages, ", "))
}

// backendErrorBody é o envelope de erro do backend de estoque
type backendErrorBody struct {
	Error struct {
		Message      string `json:"message"`
		GlobalErrors []struct {
			Message string `json:"message"`
		} `json:"globalErrors"`
		FieldErrors map[string][]struct {
			Message string `json:"message"`
		} `json:"fieldErrors"`
	} `json:"error"`
}

// extractErrorMessages extrai a lista de mensagens do corpo de erro do backend
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
	for field, errs := range parsed.Error.FieldErrors {
		for _, fe := range errs {
			messages = append(messages, fmt.Sprintf("%s: %s", field, fe.Message))
		}
	}
	if len(messages) == 0 {
		messages = []string{"unexpected error"}
	}
	return messages
}

// RestStockAPIClient implementa StockAPIClient sobre o backend REST
type RestStockAPIClient struct {
	http *resty.Client
}

// NewRestStockAPIClient cria uma nova instância de RestStockAPIClient
func NewRestStockAPIClient(baseURL string) *RestStockAPIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	return &RestStockAPIClient{http: client}
}

// apiErrorFrom converte uma resposta de erro do resty em *APIError
func apiErrorFrom(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Messages:   extractErrorMessages(resp.Body()),
	}
}

// GetOperation busca uma operação persistida pelo uuid
func (c *RestStockAPIClient) GetOperation(ctx context.Context, uuid string) (*StockOperation, error) {
	var out StockOperation
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/stockoperation/" + uuid)
	if err != nil {
		return nil, fmt.Errorf("fetching stock operation: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// CreateOperation persiste um rascunho novo com status NEW
func (c *RestStockAPIClient) CreateOperation(ctx context.Context, payload SaveOperationPayload) (*StockOperation, error) {
	var out StockOperation
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/stockoperation")
	if err != nil {
		return nil, fmt.Errorf("creating stock operation: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// UpdateOperation reenvia um rascunho já persistido
func (c *RestStockAPIClient) UpdateOperation(ctx context.Context, uuid string, payload SaveOperationPayload) (*StockOperation, error) {
	var out StockOperation
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/stockoperation/" + uuid)
	if err != nil {
		return nil, fmt.Errorf("updating stock operation: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// postStatus chama um endpoint de mudança de status da operação
func (c *RestStockAPIClient) postStatus(ctx context.Context, uuid, action, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/stockoperation/" + uuid + "/" + action)
	if err != nil {
		return fmt.Errorf("posting %s for stock operation: %w", action, err)
	}
	if resp.IsError() {
		return apiErrorFrom(resp)
	}
	return nil
}

// CompleteOperation reemite a operação com status COMPLETED
func (c *RestStockAPIClient) CompleteOperation(ctx context.Context, uuid string) error {
	return c.postStatus(ctx, uuid, "complete", "")
}

// DispatchOperation usa o endpoint de despacho, distinto do de conclusão:
// o despacho deixa a operação aguardando confirmação de recebimento no
// destino, não concluída de fato.
func (c *RestStockAPIClient) DispatchOperation(ctx context.Context, uuid string) error {
	return c.postStatus(ctx, uuid, "dispatch", "")
}

// SubmitOperation encaminha a operação para aprovação
func (c *RestStockAPIClient) SubmitOperation(ctx context.Context, uuid string) error {
	return c.postStatus(ctx, uuid, "submit", "")
}

// ApproveOperation aprova uma operação aguardando revisão
func (c *RestStockAPIClient) ApproveOperation(ctx context.Context, uuid string) error {
	return c.postStatus(ctx, uuid, "approve", "")
}

// ApproveDispatchOperation confirma o despacho de uma operação
func (c *RestStockAPIClient) ApproveDispatchOperation(ctx context.Context, uuid, reason string) error {
	return c.postStatus(ctx, uuid, "approvedispatch", reason)
}

// RejectOperation rejeita uma operação, com justificativa
func (c *RestStockAPIClient) RejectOperation(ctx context.Context, uuid, reason string) error {
	return c.postStatus(ctx, uuid, "reject", reason)
}

// ReturnOperation devolve uma operação ao remetente, com justificativa
func (c *RestStockAPIClient) ReturnOperation(ctx context.Context, uuid, reason string) error {
	return c.postStatus(ctx, uuid, "return", reason)
}

// DeleteOperationItem apaga uma linha já persistida no backend
func (c *RestStockAPIClient) DeleteOperationItem(ctx context.Context, itemUUID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/stockoperationitem/" + itemUUID)
	if err != nil {
		return fmt.Errorf("deleting stock operation item: %w", err)
	}
	if resp.IsError() {
		return apiErrorFrom(resp)
	}
	return nil
}
