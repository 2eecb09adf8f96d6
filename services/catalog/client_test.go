package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestClientGetConcept(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/concept/concept-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uuid":"concept-1","display":"Source Type","answers":[{"uuid":"a-1","display":"Commercial"}]}`))
	}))
	defer server.Close()
	client := NewRestCatalogAPIClient(server.URL)

	// Act
	concept, err := client.GetConcept(context.Background(), "concept-1")

	// Assert
	require.NoError(t, err)
	require.Len(t, concept.Answers, 1)
	assert.Equal(t, "Commercial", concept.Answers[0].Display)
}

func TestRestClientCreateAndUpdateSourcePaths(t *testing.T) {
	// Arrange: criar e atualizar usam caminhos distintos
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uuid":"src-1","name":"NMS"}`))
	}))
	defer server.Close()
	client := NewRestCatalogAPIClient(server.URL)
	ctx := context.Background()

	// Act
	_, err := client.CreateSource(ctx, StockSource{Name: "NMS"})
	require.NoError(t, err)
	_, err = client.UpdateSource(ctx, "src-1", StockSource{Name: "NMS"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"/stocksource", "/stocksource/src-1"}, paths)
}

func TestRestClientGetStockItemsSearch(t *testing.T) {
	// Arrange
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stockitem", r.URL.Path)
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"uuid":"si-1","drugName":"Paracetamol"}],"totalCount":1}`))
	}))
	defer server.Close()
	client := NewRestCatalogAPIClient(server.URL)

	// Act
	items, total, err := client.GetStockItems(context.Background(), "para", 0, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"para"}, query["q"])
	assert.Equal(t, []string{"0"}, query["startIndex"])
}

func TestRestClientSavePackagingUnitBody(t *testing.T) {
	// Arrange
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stockitempackaginguom", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uuid":"pu-1","stockItemUuid":"si-1","factor":24}`))
	}))
	defer server.Close()
	client := NewRestCatalogAPIClient(server.URL)

	// Act
	saved, err := client.SavePackagingUnit(context.Background(), PackagingUnit{
		StockItemUUID:    "si-1",
		PackagingUomUUID: "uom-1",
		Factor:           decimal.NewFromInt(24),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pu-1", saved.UUID)
	assert.Equal(t, "si-1", received["stockItemUuid"])
	assert.Equal(t, "uom-1", received["packagingUomUuid"])
}

func TestRestClientDeletePackagingUnit(t *testing.T) {
	// Arrange
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	client := NewRestCatalogAPIClient(server.URL)

	// Act
	err := client.DeletePackagingUnit(context.Background(), "pu-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/stockitempackaginguom/pu-1", path)
}

func TestRestClientErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Acronym already in use"}}`))
	}))
	defer server.Close()
	client := NewRestCatalogAPIClient(server.URL)

	_, err := client.CreateSource(context.Background(), StockSource{Name: "NMS"})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Messages, "Acronym already in use")
}
