package main

// translations mapeia as chaves de exibição deste serviço
var translations = map[string]string{
	"addedSource":              "Add Source",
	"sourceAdded":              "Stock Source Added Successfully",
	"errorAddingSource":        "Error adding a source",
	"savePackingUnitTitle":     "Package Unit",
	"savePackingUnitMessage":   "Package Unit saved successfully",
	"savePackingUnitError":     "Error saving package unit",
	"deletePackingUnitTitle":   "Delete packing item",
	"deletePackingUnitMessage": "Stock Item packing unit deleted Successfully",
	"deletePackingUnitError":   "Error Deleting a stock item packing unit",
	"noLocations":              "No locations to display",
	"noStockItems":             "No stock items to display",
}

// t busca uma tradução pela chave, caindo no texto padrão
func t(key, defaultText string) string {
	if v, ok := translations[key]; ok {
		return v
	}
	return defaultText
}
