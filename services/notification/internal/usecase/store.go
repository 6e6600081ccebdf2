package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/services/notification/internal/entity"

	"github.com/google/uuid"
)

const persistTimeout = 5 * time.Second

// Store holds the ordered notification list for one user, newest first.
// In-memory state is authoritative; the full list is written behind to
// durable key-value storage under a fixed key. A failed write is logged
// and never rolls back the in-memory mutation.
type Store struct {
	key        string
	kv         kvstore.Store
	log        *logger.Logger
	now        func() time.Time
	publish    func(entity.Notification)
	thresholds Thresholds

	mu            sync.Mutex
	notifications []entity.Notification

	dirty     chan struct{}
	done      chan struct{}
	writerWG  sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPublisher registers a callback invoked for every added notification,
// used to fan new notifications out to live subscribers.
func WithPublisher(publish func(entity.Notification)) Option {
	return func(s *Store) { s.publish = publish }
}

// WithThresholds overrides the environmental rule thresholds.
func WithThresholds(t Thresholds) Option {
	return func(s *Store) { s.thresholds = t }
}

// NewStore loads any previously persisted list and starts the write-behind
// writer. A load failure is logged and the store starts empty.
func NewStore(kv kvstore.Store, key string, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		key:        key,
		kv:         kv,
		log:        log,
		now:        time.Now,
		thresholds: DefaultThresholds(),
		dirty:      make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()

	s.writerWG.Add(1)
	go s.writer()

	return s
}

func (s *Store) load() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	raw, err := s.kv.Get(ctx, s.key)
	if err == kvstore.ErrNotFound {
		return
	}
	if err != nil {
		s.log.Error("Failed to load notifications for %s: %v", s.key, err)
		return
	}

	var notifications []entity.Notification
	if err := json.Unmarshal([]byte(raw), &notifications); err != nil {
		s.log.Error("Failed to decode stored notifications for %s: %v", s.key, err)
		return
	}

	s.mu.Lock()
	s.notifications = notifications
	s.mu.Unlock()
}

// writer coalesces rapid mutations into a single full-list write.
func (s *Store) writer() {
	defer s.writerWG.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.dirty:
			s.persist()
		}
	}
}

func (s *Store) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Store) persist() {
	s.mu.Lock()
	raw, err := json.Marshal(s.notifications)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("Failed to encode notifications for %s: %v", s.key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.log.Error("Failed to persist notifications for %s: %v", s.key, err)
	}
}

// Close stops the writer and flushes the current list one final time.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writerWG.Wait()
		s.persist()
	})
}

// Add creates a new notification, prepends it to the list and returns its
// generated id.
func (s *Store) Add(input entity.NotificationInput) string {
	notification := entity.Notification{
		ID:        uuid.New().String(),
		Type:      input.Type,
		Title:     input.Title,
		Message:   input.Message,
		Icon:      input.Icon,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Read:      false,
	}

	s.mu.Lock()
	s.notifications = append([]entity.Notification{notification}, s.notifications...)
	s.mu.Unlock()

	s.markDirty()

	if s.publish != nil {
		s.publish(notification)
	}

	return notification.ID
}

// MarkAsRead flips the notification's read flag. An unknown id is a no-op.
func (s *Store) MarkAsRead(id string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	s.mu.Unlock()

	s.markDirty()
}

func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.mu.Unlock()

	s.markDirty()
}

// Delete removes the notification with the given id. An unknown id is a
// no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.markDirty()
}

func (s *Store) ClearAll() {
	s.mu.Lock()
	s.notifications = nil
	s.mu.Unlock()

	s.markDirty()
}

// List returns a snapshot of the notifications, newest first.
func (s *Store) List() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]entity.Notification, len(s.notifications))
	copy(snapshot, s.notifications)
	return snapshot
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			count++
		}
	}
	return count
}

// FormattedTime renders a timestamp as a relative age label.
func (s *Store) FormattedTime(timestamp string) string {
	return RelativeTime(timestamp, s.now())
}

// RelativeTime converts an RFC3339 timestamp into a relative-age label.
// Thresholds use truncating division of the elapsed time. Timestamps older
// than a week render as a calendar date. An unparsable timestamp is
// returned unchanged.
func RelativeTime(timestamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}

	minutes := int(now.Sub(t).Minutes())
	if minutes < 1 {
		return "Just now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}

	return t.Format("1/2/2006")
}
