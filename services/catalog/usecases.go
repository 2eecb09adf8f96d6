package main

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CatalogUseCase contém a lógica de negócio das telas de catálogo
type CatalogUseCase struct {
	client            CatalogAPIClient
	sourceTypeConcept string
	tracer            trace.Tracer
}

// NewCatalogUseCase cria uma nova instância de CatalogUseCase
func NewCatalogUseCase(client CatalogAPIClient, sourceTypeConcept string, tracer trace.Tracer) *CatalogUseCase {
	return &CatalogUseCase{
		client:            client,
		sourceTypeConcept: sourceTypeConcept,
		tracer:            tracer,
	}
}

// describeBackendError devolve as mensagens extraídas de um *APIError, ou a
// mensagem crua do erro para falhas de transporte
func describeBackendError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strings.Join(apiErr.Messages, ", ")
	}
	return err.Error()
}

// SourcePayload é o formulário de criação/edição de origem de estoque
type SourcePayload struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	Acronym        string `json:"acronym"`
	SourceTypeUUID string `json:"sourceTypeUuid"`
}

// SourceView é o resultado do formulário de origem com as notificações da UI
type SourceView struct {
	Source        *StockSource   `json:"source,omitempty"`
	Notifications []Notification `json:"notifications"`
}

// SourceTypes busca as respostas do conceito de tipo de origem para o select
func (uc *CatalogUseCase) SourceTypes(ctx context.Context) ([]ConceptRef, error) {
	ctx, span := uc.tracer.Start(ctx, "fetch_source_types")
	defer span.End()

	concept, err := uc.client.GetConcept(ctx, uc.sourceTypeConcept)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch source type concept: %v", err)
		return nil, err
	}
	return concept.Answers, nil
}

// SaveSource cria ou atualiza uma origem de estoque. O tipo de origem vem do
// lookup de conceito; uuid presente decide entre criar e atualizar.
func (uc *CatalogUseCase) SaveSource(ctx context.Context, payload SourcePayload) (*SourceView, error) {
	ctx, span := uc.tracer.Start(ctx, "save_stock_source")
	defer span.End()
	span.SetAttributes(attribute.String("source_name", payload.Name))

	if payload.Name == "" {
		return nil, ErrSourceNameRequired
	}
	if payload.Acronym == "" {
		return nil, ErrSourceAcronymRequired
	}

	source := StockSource{
		Name:    payload.Name,
		Acronym: payload.Acronym,
	}
	if payload.SourceTypeUUID != "" {
		sourceType, err := uc.resolveSourceType(ctx, payload.SourceTypeUUID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		source.SourceType = sourceType
	}

	notifier := &collectingNotifier{}
	var saved *StockSource
	var err error
	if payload.UUID != "" {
		saved, err = uc.client.UpdateSource(ctx, payload.UUID, source)
	} else {
		saved, err = uc.client.CreateSource(ctx, source)
	}
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to save stock source %s: %v", payload.Name, err)
		notifier.notify(NotificationError, t("errorAddingSource", "Error adding a source"), describeBackendError(err))
		return &SourceView{Notifications: notifier.notifications}, nil
	}
	notifier.notify(NotificationSuccess, t("addedSource", "Add Source"), t("sourceAdded", "Stock Source Added Successfully"))
	log.Infof("💾 Stock source %s saved", saved.UUID)
	return &SourceView{Source: saved, Notifications: notifier.notifications}, nil
}

// resolveSourceType localiza a resposta do conceito de tipo de origem
func (uc *CatalogUseCase) resolveSourceType(ctx context.Context, uuid string) (*ConceptRef, error) {
	concept, err := uc.client.GetConcept(ctx, uc.sourceTypeConcept)
	if err != nil {
		return nil, err
	}
	for _, answer := range concept.Answers {
		if answer.UUID == uuid {
			return &ConceptRef{UUID: answer.UUID, Display: answer.Display}, nil
		}
	}
	return nil, errors.New("unknown source type: " + uuid)
}

// SourcesView é a página de origens de estoque
type SourcesView struct {
	Sources    []StockSource `json:"sources"`
	Pagination PageMeta      `json:"pagination"`
}

// Sources busca uma página de origens de estoque
func (uc *CatalogUseCase) Sources(ctx context.Context, page, pageSize int) (*SourcesView, error) {
	ctx, span := uc.tracer.Start(ctx, "list_stock_sources")
	defer span.End()

	page, pageSize = normalizePaging(page, pageSize)
	sources, total, err := uc.client.GetSources(ctx, startIndexFor(page, pageSize), pageSize)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch stock sources: %v", err)
		return nil, err
	}
	return &SourcesView{
		Sources:    sources,
		Pagination: PageMeta{Page: page, PageSize: pageSize, TotalCount: total},
	}, nil
}

// LocationRow é a linha de exibição de um local
type LocationRow struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	Tags           string `json:"tags"`
	ChildLocations string `json:"childLocations"`
}

// ProjectLocation projeta um local em linha de exibição: etiquetas SUBSETTED
// são filtradas e os locais filhos aparecem com os nomes de exibição juntados
func ProjectLocation(location Location) LocationRow {
	tags := make([]string, 0, len(location.Meta.Tag))
	for _, tag := range location.Meta.Tag {
		if tag.Code == "SUBSETTED" {
			continue
		}
		tags = append(tags, tag.Code)
	}
	children := make([]string, 0, len(location.ChildLocations))
	for _, child := range location.ChildLocations {
		children = append(children, child.Display)
	}
	return LocationRow{
		UUID:           location.UUID,
		Name:           location.Name,
		Tags:           strings.Join(tags, ", "),
		ChildLocations: strings.Join(children, ", "),
	}
}

// LocationsView é a listagem de locais projetada
type LocationsView struct {
	Rows    []LocationRow `json:"rows"`
	Message string        `json:"message,omitempty"`
}

// Locations busca e projeta os locais cadastrados
func (uc *CatalogUseCase) Locations(ctx context.Context) (*LocationsView, error) {
	ctx, span := uc.tracer.Start(ctx, "list_locations")
	defer span.End()

	locations, err := uc.client.GetLocations(ctx)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch locations: %v", err)
		return nil, err
	}
	rows := make([]LocationRow, 0, len(locations))
	for _, location := range locations {
		rows = append(rows, ProjectLocation(location))
	}
	view := &LocationsView{Rows: rows}
	if len(rows) == 0 {
		view.Message = t("noLocations", "No locations to display")
	}
	return view, nil
}

// StockItemsView é a página de itens de estoque
type StockItemsView struct {
	Items      []StockItem `json:"items"`
	Pagination PageMeta    `json:"pagination"`
	Message    string      `json:"message,omitempty"`
}

// StockItems busca uma página de itens de estoque, com busca opcional
func (uc *CatalogUseCase) StockItems(ctx context.Context, search string, page, pageSize int) (*StockItemsView, error) {
	ctx, span := uc.tracer.Start(ctx, "list_stock_items")
	defer span.End()

	page, pageSize = normalizePaging(page, pageSize)
	items, total, err := uc.client.GetStockItems(ctx, search, startIndexFor(page, pageSize), pageSize)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to fetch stock items: %v", err)
		return nil, err
	}
	view := &StockItemsView{
		Items:      items,
		Pagination: PageMeta{Page: page, PageSize: pageSize, TotalCount: total},
	}
	if len(items) == 0 {
		view.Message = t("noStockItems", "No stock items to display")
	}
	return view, nil
}

// PackagingUnitView é o resultado de salvar/apagar uma unidade de embalagem
type PackagingUnitView struct {
	Unit          *PackagingUnit `json:"unit,omitempty"`
	Notifications []Notification `json:"notifications"`
}

// SavePackagingUnit persiste uma unidade de embalagem (fator + conceito de
// unidade) para um item de estoque
func (uc *CatalogUseCase) SavePackagingUnit(ctx context.Context, unit PackagingUnit) (*PackagingUnitView, error) {
	ctx, span := uc.tracer.Start(ctx, "save_packaging_unit")
	defer span.End()
	span.SetAttributes(attribute.String("stock_item_uuid", unit.StockItemUUID))

	if unit.StockItemUUID == "" {
		return nil, ErrStockItemRequired
	}
	if unit.PackagingUomUUID == "" {
		return nil, ErrPackagingUomRequired
	}
	if !unit.Factor.IsPositive() {
		return nil, ErrFactorNotPositive
	}

	notifier := &collectingNotifier{}
	saved, err := uc.client.SavePackagingUnit(ctx, unit)
	if err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to save packaging unit for item %s: %v", unit.StockItemUUID, err)
		notifier.notify(NotificationError, t("savePackingUnitTitle", "Package Unit"), t("savePackingUnitError", "Error saving package unit"))
		return &PackagingUnitView{Notifications: notifier.notifications}, nil
	}
	notifier.notify(NotificationSuccess, t("savePackingUnitTitle", "Package Unit"), t("savePackingUnitMessage", "Package Unit saved successfully"))
	return &PackagingUnitView{Unit: saved, Notifications: notifier.notifications}, nil
}

// DeletePackagingUnit remove uma unidade de embalagem. Identidade placeholder:
// remoção puramente local, sem chamada ao backend. Identidade persistida:
// exatamente uma chamada DELETE; falha mantém o registro e notifica o erro.
func (uc *CatalogUseCase) DeletePackagingUnit(ctx context.Context, uuid string) (*PackagingUnitView, error) {
	ctx, span := uc.tracer.Start(ctx, "delete_packaging_unit")
	defer span.End()
	span.SetAttributes(attribute.String("packaging_unit_uuid", uuid))

	notifier := &collectingNotifier{}
	if strings.HasPrefix(uuid, PlaceholderPrefix) {
		notifier.notify(NotificationSuccess, t("deletePackingUnitTitle", "Delete packing item"), t("deletePackingUnitMessage", "Stock Item packing unit deleted Successfully"))
		return &PackagingUnitView{Notifications: notifier.notifications}, nil
	}

	if err := uc.client.DeletePackagingUnit(ctx, uuid); err != nil {
		span.RecordError(err)
		log.Errorf("❌ Failed to delete packaging unit %s: %v", uuid, err)
		notifier.notify(NotificationError, t("deletePackingUnitError", "Error Deleting a stock item packing unit"), describeBackendError(err))
		return &PackagingUnitView{Notifications: notifier.notifications}, nil
	}
	notifier.notify(NotificationSuccess, t("deletePackingUnitTitle", "Delete packing item"), t("deletePackingUnitMessage", "Stock Item packing unit deleted Successfully"))
	log.Infof("🗑️ Packaging unit %s deleted", uuid)
	return &PackagingUnitView{Notifications: notifier.notifications}, nil
}
