package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreLifecycle(t *testing.T) {
	// Arrange
	store := NewSessionStore()
	descriptor, _ := DescriptorFor(OperationTypeReceipt)

	// Act
	session := store.Create(NewStockOperation(OperationTypeReceipt), descriptor, true)
	fetched, err := store.Get(session.ID)

	// Assert
	require.NoError(t, err)
	assert.Same(t, session, fetched)

	require.NoError(t, store.Discard(session.ID))
	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Discard(session.ID), ErrSessionNotFound)
}

func TestPlaceholderCountersAreSessionScoped(t *testing.T) {
	// Arrange: duas sessões concorrentes no mesmo processo
	store := NewSessionStore()
	descriptor, _ := DescriptorFor(OperationTypeReceipt)
	a := store.Create(NewStockOperation(OperationTypeReceipt), descriptor, true)
	b := store.Create(NewStockOperation(OperationTypeReceipt), descriptor, true)

	// Act
	itemA := a.AddItem()
	itemB := b.AddItem()

	// Assert: cada sessão tem seu próprio contador, começando do 1
	assert.Equal(t, "new-item-1", itemA.UUID)
	assert.Equal(t, "new-item-1", itemB.UUID)
}

func TestConcurrentAddItemsKeepUniqueIdentities(t *testing.T) {
	// Arrange
	store := NewSessionStore()
	descriptor, _ := DescriptorFor(OperationTypeReceipt)
	session := store.Create(NewStockOperation(OperationTypeReceipt), descriptor, true)

	// Act: adições simultâneas na mesma sessão
	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			session.AddItem()
		}()
	}
	wg.Wait()

	// Assert: nenhuma linha perdida e nenhuma identidade repetida
	require.Len(t, session.Draft.Items, n)
	seen := map[string]bool{}
	for _, item := range session.Draft.Items {
		assert.False(t, seen[item.UUID], "duplicated identity %s", item.UUID)
		seen[item.UUID] = true
	}
}

func TestBeginSaveBlocksSecondSubmission(t *testing.T) {
	// Arrange
	store := NewSessionStore()
	descriptor, _ := DescriptorFor(OperationTypeReceipt)
	session := store.Create(NewStockOperation(OperationTypeReceipt), descriptor, true)

	// Act / Assert
	assert.True(t, session.beginSave())
	assert.False(t, session.beginSave(), "second submission while saving must be refused")
	session.endSave()
	assert.True(t, session.beginSave(), "flag must be released after endSave")
}

func TestDrainNotificationsClearsPending(t *testing.T) {
	store := NewSessionStore()
	descriptor, _ := DescriptorFor(OperationTypeReceipt)
	session := store.Create(NewStockOperation(OperationTypeReceipt), descriptor, true)

	session.notify(NotificationSuccess, "saved", "")
	first := session.drainNotifications()
	second := session.drainNotifications()

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}
