package usecase

import (
	"fmt"
	"sync"

	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/services/notification/internal/entity"
)

// Manager owns one Store per user, created lazily on first access. Each
// store persists under its own fixed key.
type Manager struct {
	kv         kvstore.Store
	log        *logger.Logger
	thresholds Thresholds
	publish    func(userID string, notification entity.Notification)

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(kv kvstore.Store, log *logger.Logger, thresholds Thresholds, publish func(userID string, notification entity.Notification)) *Manager {
	return &Manager{
		kv:         kv,
		log:        log,
		thresholds: thresholds,
		publish:    publish,
		stores:     make(map[string]*Store),
	}
}

// ForUser returns the user's store, creating and loading it on first use.
func (m *Manager) ForUser(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[userID]; ok {
		return store
	}

	opts := []Option{WithThresholds(m.thresholds)}
	if m.publish != nil {
		uid := userID
		opts = append(opts, WithPublisher(func(n entity.Notification) {
			m.publish(uid, n)
		}))
	}

	store := NewStore(m.kv, fmt.Sprintf("notifications:%s", userID), m.log, opts...)
	m.stores[userID] = store
	return store
}

// Users lists the ids with an active store this session.
func (m *Manager) Users() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]string, 0, len(m.stores))
	for userID := range m.stores {
		users = append(users, userID)
	}
	return users
}

// Close flushes and stops every store.
func (m *Manager) Close() {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.stores))
	for _, store := range m.stores {
		stores = append(stores, store)
	}
	m.mu.Unlock()

	for _, store := range stores {
		store.Close()
	}
}
