package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// CatalogAPIClient abstrai os endpoints de catálogo do backend de estoque
type CatalogAPIClient interface {
	GetConcept(ctx context.Context, uuid string) (*Concept, error)
	GetSources(ctx context.Context, startIndex, limit int) ([]StockSource, int, error)
	CreateSource(ctx context.Context, source StockSource) (*StockSource, error)
	UpdateSource(ctx context.Context, uuid string, source StockSource) (*StockSource, error)
	GetLocations(ctx context.Context) ([]Location, error)
	GetStockItems(ctx context.Context, search string, startIndex, limit int) ([]StockItem, int, error)
	SavePackagingUnit(ctx context.Context, unit PackagingUnit) (*PackagingUnit, error)
	DeletePackagingUnit(ctx context.Context, uuid string) error
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

type resultPage[T any] struct {
	Results    []T `json:"results"`
	TotalCount int `json:"totalCount"`
}

// RestCatalogAPIClient implementa CatalogAPIClient sobre o backend REST
type RestCatalogAPIClient struct {
	http *resty.Client
}

// NewRestCatalogAPIClient cria uma nova instância de RestCatalogAPIClient
func NewRestCatalogAPIClient(baseURL string) *RestCatalogAPIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	return &RestCatalogAPIClient{http: client}
}

func apiErrorFrom(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Messages:   extractErrorMessages(resp.Body()),
	}
}

// GetConcept busca um conceito com suas respostas (lookup de tipo de origem)
func (c *RestCatalogAPIClient) GetConcept(ctx context.Context, uuid string) (*Concept, error) {
	var out Concept
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/concept/" + uuid)
	if err != nil {
		return nil, fmt.Errorf("fetching concept: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// GetSources busca uma página de origens de estoque
func (c *RestCatalogAPIClient) GetSources(ctx context.Context, startIndex, limit int) ([]StockSource, int, error) {
	var out resultPage[StockSource]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"startIndex": strconv.Itoa(startIndex),
			"limit":      strconv.Itoa(limit),
			"totalCount": "true",
		}).
		SetResult(&out).
		Get("/stocksource")
	if err != nil {
		return nil, 0, fmt.Errorf("fetching stock sources: %w", err)
	}
	if resp.IsError() {
		return nil, 0, apiErrorFrom(resp)
	}
	return out.Results, out.TotalCount, nil
}

// CreateSource persiste uma origem nova
func (c *RestCatalogAPIClient) CreateSource(ctx context.Context, source StockSource) (*StockSource, error) {
	var out StockSource
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(source).
		SetResult(&out).
		Post("/stocksource")
	if err != nil {
		return nil, fmt.Errorf("creating stock source: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// UpdateSource reenvia uma origem já persistida
func (c *RestCatalogAPIClient) UpdateSource(ctx context.Context, uuid string, source StockSource) (*StockSource, error) {
	var out StockSource
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(source).
		SetResult(&out).
		Post("/stocksource/" + uuid)
	if err != nil {
		return nil, fmt.Errorf("updating stock source: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// GetLocations busca os locais físicos cadastrados
func (c *RestCatalogAPIClient) GetLocations(ctx context.Context) ([]Location, error) {
	var out resultPage[Location]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("v", "full").
		SetResult(&out).
		Get("/location")
	if err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return out.Results, nil
}

// GetStockItems busca uma página de itens de estoque, com busca opcional
func (c *RestCatalogAPIClient) GetStockItems(ctx context.Context, search string, startIndex, limit int) ([]StockItem, int, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"startIndex": strconv.Itoa(startIndex),
			"limit":      strconv.Itoa(limit),
			"totalCount": "true",
		})
	if search != "" {
		req.SetQueryParam("q", search)
	}
	var out resultPage[StockItem]
	resp, err := req.SetResult(&out).Get("/stockitem")
	if err != nil {
		return nil, 0, fmt.Errorf("fetching stock items: %w", err)
	}
	if resp.IsError() {
		return nil, 0, apiErrorFrom(resp)
	}
	return out.Results, out.TotalCount, nil
}

// SavePackagingUnit persiste uma unidade de embalagem de um item
func (c *RestCatalogAPIClient) SavePackagingUnit(ctx context.Context, unit PackagingUnit) (*PackagingUnit, error) {
	var out PackagingUnit
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(unit).
		SetResult(&out).
		Post("/stockitempackaginguom")
	if err != nil {
		return nil, fmt.Errorf("saving packaging unit: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFrom(resp)
	}
	return &out, nil
}

// DeletePackagingUnit apaga uma unidade de embalagem já persistida
func (c *RestCatalogAPIClient) DeletePackagingUnit(ctx context.Context, uuid string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/stockitempackaginguom/" + uuid)
	if err != nil {
		return fmt.Errorf("deleting packaging unit: %w", err)
	}
	if resp.IsError() {
		return apiErrorFrom(resp)
	}
	return nil
}
