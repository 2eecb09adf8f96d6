package main

import "strconv"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageMeta descreve a paginação de uma listagem
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// normalizePaging aplica os limites de página e tamanho de página
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// startIndexFor converte página em índice inicial do backend
func startIndexFor(page, pageSize int) int {
	return (page - 1) * pageSize
}

// queryInt lê um parâmetro inteiro de query string com valor padrão
func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
