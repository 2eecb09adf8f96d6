package main

import log "github.com/sirupsen/logrus"

// Notification é o aviso fire-and-forget exibido pela UI (toast/snackbar)
type Notification struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Tipos de notificação
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// collectingNotifier acumula as notificações de uma requisição para que o
// cliente possa exibi-las. Cada desfecho emite exatamente uma.
type collectingNotifier struct {
	notifications []Notification
}

func (c *collectingNotifier) notify(kind, title, description string) {
	c.notifications = append(c.notifications, Notification{Kind: kind, Title: title, Description: description})
	entry := log.WithFields(log.Fields{"title": title, "description": description})
	if kind == NotificationError {
		entry.Error("❌ notification")
		return
	}
	entry.Info("✅ notification")
}
