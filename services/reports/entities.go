package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItemTransaction representa um movimento histórico de estoque devolvido
// pelo backend. Registro somente-leitura: a quantidade carrega o sinal do
// movimento (negativa para saídas).
type StockItemTransaction struct {
	UUID                          string          `json:"uuid"`
	DateCreated                   *time.Time      `json:"dateCreated"`
	PartyName                     string          `json:"partyName"`
	OperationSourcePartyName      string          `json:"operationSourcePartyName"`
	OperationDestinationPartyName string          `json:"operationDestinationPartyName"`
	Quantity                      decimal.Decimal `json:"quantity"`
	PackagingUomName              string          `json:"packagingUomName"`
	StockBatchNo                  string          `json:"stockBatchNo"`
	Expiration                    *time.Time      `json:"expiration"`
	StockOperationUUID            string          `json:"stockOperationUuid"`
	StockOperationNumber          string          `json:"stockOperationNumber"`
	StockOperationStatus          string          `json:"stockOperationStatus"`
	StockOperationTypeName        string          `json:"stockOperationTypeName"`
	IsPatientTransaction          bool            `json:"isPatientTransaction"`
}

// RoleScopeLocation é um local coberto por um escopo de papel
type RoleScopeLocation struct {
	LocationUUID string `json:"locationUuid"`
	LocationName string `json:"locationName"`
}

// RoleScopeOperationType é um tipo de operação permitido por um escopo de papel
type RoleScopeOperationType struct {
	OperationTypeUUID string `json:"operationTypeUuid"`
	OperationTypeName string `json:"operationTypeName"`
}

// UserRoleScope representa a concessão de um papel a um usuário: locais,
// tipos de operação permitidos e janela de validade
type UserRoleScope struct {
	UUID           string                   `json:"uuid"`
	UserGivenName  string                   `json:"userGivenName"`
	UserFamilyName string                   `json:"userFamilyName"`
	Role           string                   `json:"role"`
	Locations      []RoleScopeLocation      `json:"locations"`
	OperationTypes []RoleScopeOperationType `json:"operationTypes"`
	Permanent      bool                     `json:"permanent"`
	Enabled        bool                     `json:"enabled"`
	ActiveFrom     *time.Time               `json:"activeFrom"`
	ActiveTo       *time.Time               `json:"activeTo"`
}

// OperationItemSummary é a linha de uma operação resumida para os cartões da home
type OperationItemSummary struct {
	StockItemName     string          `json:"stockItemName"`
	PackagingUnitName string          `json:"stockItemPackagingUOMName"`
	Quantity          decimal.Decimal `json:"quantity"`
}

// StockOperationSummary resume uma operação buscada para os cartões da home
type StockOperationSummary struct {
	UUID            string                 `json:"uuid"`
	Status          string                 `json:"status"`
	SourceName      string                 `json:"sourceName"`
	DestinationName string                 `json:"destinationName"`
	Items           []OperationItemSummary `json:"stockOperationItems"`
}
