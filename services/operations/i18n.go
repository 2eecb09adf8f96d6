package main

// Traduções carregadas para o locale ativo. Puramente presentacional.
var translations = map[string]string{
	"savedOperation":       "Stock operation saved successfully",
	"completedOperation":   "Stock operation completed successfully",
	"dispatchedOperation":  "Stock operation dispatched successfully",
	"submittedOperation":   "Stock operation submitted for review",
	"deletedItem":          "Stock item removed successfully",
	"operationError":       "Error saving stock operation",
	"deleteItemError":      "Error removing stock item",
	"noStockItems":         "You haven't added any stock items, tap the add button to add some.",
	"noStockItemsTitle":    "No stock items",
	"approvedOperation":    "Stock operation approved",
	"rejectedOperation":    "Stock operation rejected",
	"returnedOperation":    "Stock operation returned",
	"approveDispatchTitle": "Approve Dispatch",
}

// t resolve uma chave de tradução, caindo no texto padrão quando ausente
func t(key, defaultText string) string {
	if v, ok := translations[key]; ok {
		return v
	}
	return defaultText
}
