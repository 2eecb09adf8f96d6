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

// Notifier abstrai a superfície de notificação. Nenhum retorno é consumido.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier registra notificações no log estruturado do serviço
type LogNotifier struct{}

// Notify implementa Notifier
func (LogNotifier) Notify(n Notification) {
	entry := log.WithFields(log.Fields{"title": n.Title, "description": n.Description})
	if n.Kind == NotificationError {
		entry.Error("❌ notification")
		return
	}
	entry.Info("✅ notification")
}
