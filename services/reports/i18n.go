package main

// translations mapeia as chaves de exibição deste serviço. A tradução é
// presentacional: chave ausente cai no texto padrão.
var translations = map[string]string{
	"yes":            "Yes",
	"no":             "No",
	"noTransactions": "No transactions to display",
	"noRoleScopes":   "No Stock User scopes to display",
	"issuingNull":    "No issued to display",
	"receivingNull":  "No received to display",
}

// t busca uma tradução pela chave, caindo no texto padrão
func t(key, defaultText string) string {
	if v, ok := translations[key]; ok {
		return v
	}
	return defaultText
}
