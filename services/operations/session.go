package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("editing session not found")

// EditingSession é o dono exclusivo de um rascunho de operação em edição.
// O contador de placeholders e a flag de salvamento pertencem à sessão,
// nunca ao processo: sessões concorrentes não compartilham estado mutável.
type EditingSession struct {
	ID         string
	Draft      *StockOperation
	Descriptor OperationTypeDescriptor
	CanEdit    bool

	mu            sync.Mutex
	nextItemSeq   int
	saving        bool
	fieldErrors   map[string]map[string]string
	notifications []Notification
}

// nextPlaceholderID gera uma identidade local única dentro da sessão.
// Contador monotônico; o chamador segura s.mu, então chamadas rápidas
// sucessivas nunca colidem.
func (s *EditingSession) nextPlaceholderID() string {
	s.nextItemSeq++
	return fmt.Sprintf("%s%d", PlaceholderPrefix, s.nextItemSeq)
}

// replaceDraft troca o rascunho pelo registro devolvido pelo backend
func (s *EditingSession) replaceDraft(saved *StockOperation) {
	s.mu.Lock()
	s.Draft = saved
	s.mu.Unlock()
}

// beginSave arma a flag de salvamento da sessão. Retorna false se já houver
// uma transição em andamento (proteção contra duplo submit).
func (s *EditingSession) beginSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return false
	}
	s.saving = true
	return true
}

// endSave libera a flag de salvamento. Sempre chamado via defer, tanto no
// sucesso quanto na falha.
func (s *EditingSession) endSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}

// IsSaving informa se há uma transição com backend em andamento
func (s *EditingSession) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// notify registra uma notificação pendente para a UI desta sessão
func (s *EditingSession) notify(kind, title, description string) {
	s.mu.Lock()
	s.notifications = append(s.notifications, Notification{Kind: kind, Title: title, Description: description})
	s.mu.Unlock()
}

// drainNotifications devolve e limpa as notificações pendentes
func (s *EditingSession) drainNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notifications
	s.notifications = nil
	return out
}

// setFieldError anexa um erro de validação a um campo específico de um item.
// Erros de campo nunca viram notificação global nem bloqueiam outros campos.
// O chamador segura s.mu.
func (s *EditingSession) setFieldError(itemUUID, field, message string) {
	if s.fieldErrors == nil {
		s.fieldErrors = map[string]map[string]string{}
	}
	if s.fieldErrors[itemUUID] == nil {
		s.fieldErrors[itemUUID] = map[string]string{}
	}
	s.fieldErrors[itemUUID][field] = message
}

// clearFieldError remove o erro de um campo após um valor válido.
// O chamador segura s.mu.
func (s *EditingSession) clearFieldError(itemUUID, field string) {
	if s.fieldErrors[itemUUID] != nil {
		delete(s.fieldErrors[itemUUID], field)
		if len(s.fieldErrors[itemUUID]) == 0 {
			delete(s.fieldErrors, itemUUID)
		}
	}
}

// FieldErrors devolve uma cópia dos erros de validação pendentes por item
func (s *EditingSession) FieldErrors() map[string]map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]string, len(s.fieldErrors))
	for item, fields := range s.fieldErrors {
		cp := make(map[string]string, len(fields))
		for f, m := range fields {
			cp[f] = m
		}
		out[item] = cp
	}
	return out
}

// SessionStore guarda as sessões de edição ativas do processo
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*EditingSession
}

// NewSessionStore cria uma nova instância de SessionStore
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*EditingSession{}}
}

// Create registra uma nova sessão de edição para o rascunho dado
func (st *SessionStore) Create(draft *StockOperation, descriptor OperationTypeDescriptor, canEdit bool) *EditingSession {
	session := &EditingSession{
		ID:         uuid.New().String(),
		Draft:      draft,
		Descriptor: descriptor,
		CanEdit:    canEdit,
	}
	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()
	return session
}

// Get busca uma sessão ativa pelo id
func (st *SessionStore) Get(id string) (*EditingSession, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Discard encerra a sessão descartando o rascunho. Nenhuma chamada ao backend.
func (st *SessionStore) Discard(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}
