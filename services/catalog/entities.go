package main

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ConceptRef referencia um conceito do dicionário (lookup de tipo de origem)
type ConceptRef struct {
	UUID    string `json:"uuid"`
	Display string `json:"display"`
}

// Concept é um conceito com as respostas possíveis de um campo codificado
type Concept struct {
	UUID    string       `json:"uuid"`
	Display string       `json:"display"`
	Answers []ConceptRef `json:"answers"`
}

// StockSource representa uma origem de estoque (fornecedor ou almoxarifado)
type StockSource struct {
	UUID       string      `json:"uuid,omitempty"`
	Name       string      `json:"name"`
	Acronym    string      `json:"acronym"`
	SourceType *ConceptRef `json:"sourceType,omitempty"`
}

// LocationTag é uma etiqueta de um local
type LocationTag struct {
	Code string `json:"code"`
}

// LocationMeta carrega as etiquetas de um local
type LocationMeta struct {
	Tag []LocationTag `json:"tag"`
}

// LocationRef referencia um local filho pelo nome de exibição
type LocationRef struct {
	Display string `json:"display"`
}

// Location representa um local físico do hospital
type Location struct {
	UUID           string        `json:"uuid"`
	Name           string        `json:"name"`
	Meta           LocationMeta  `json:"meta"`
	ChildLocations []LocationRef `json:"childLocations"`
}

// StockItem resume um item de estoque para listagem
type StockItem struct {
	UUID             string `json:"uuid"`
	DrugName         string `json:"drugName"`
	CommonName       string `json:"commonName"`
	DispensingUnit   string `json:"dispensingUnitName"`
	DefaultPackaging string `json:"defaultStockOperationsUOMName"`
	Category         string `json:"categoryName"`
}

// PackagingUnit é uma unidade de embalagem de um item de estoque
type PackagingUnit struct {
	UUID             string          `json:"uuid,omitempty"`
	StockItemUUID    string          `json:"stockItemUuid"`
	PackagingUomUUID string          `json:"packagingUomUuid"`
	PackagingUomName string          `json:"packagingUomName,omitempty"`
	Factor           decimal.Decimal `json:"factor"`
}

// PlaceholderPrefix identifica registros ainda não persistidos no backend
const PlaceholderPrefix = "new-item-"

// IsPlaceholder informa se a unidade de embalagem só existe localmente
func (p PackagingUnit) IsPlaceholder() bool {
	return strings.HasPrefix(p.UUID, PlaceholderPrefix)
}

var (
	ErrSourceNameRequired    = errors.New("source name is required")
	ErrSourceAcronymRequired = errors.New("source acronym is required")
	ErrFactorNotPositive     = errors.New("packaging unit factor must be a positive number")
	ErrStockItemRequired     = errors.New("stock item is required")
	ErrPackagingUomRequired  = errors.New("packaging unit concept is required")
)
