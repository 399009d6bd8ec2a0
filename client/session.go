package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videolearn/enhancement-api/models"
)

// SessionOptions configures an EnhancementSession.
type SessionOptions struct {
	EnableAutoSave bool
	AutoSaveDelay  time.Duration
	OnSaveSuccess  func(models.AdditionalTextEntry)
	OnSaveError    func(*ServiceError)
}

// EnhancementSession composes the service facade with a debounced
// auto-save for one video's editing surface. It owns at most one
// pending timer and exposes the unsaved-changes state a UI needs for
// its indicator. A manual Save always cancels the pending auto-save
// first so a stale auto-save can never overwrite a newer manual save.
type EnhancementSession struct {
	service *EnhancementService
	videoID uuid.UUID
	opts    SessionOptions
	log     *logrus.Logger

	mu                sync.Mutex
	timer             *time.Timer
	pendingAutoSave   *models.CreateAdditionalTextInput
	hasUnsavedChanges bool
	closed            bool
}

// NewEnhancementSession creates a session for one video. AutoSaveDelay
// defaults to DefaultAutoSaveDebounce.
func NewEnhancementSession(service *EnhancementService, videoID uuid.UUID, opts SessionOptions) *EnhancementSession {
	if opts.AutoSaveDelay <= 0 {
		opts.AutoSaveDelay = DefaultAutoSaveDebounce
	}
	return &EnhancementSession{
		service: service,
		videoID: videoID,
		opts:    opts,
		log:     service.log,
	}
}

// AutoSave schedules a debounced background save of data, superseding
// any save still pending. The data becomes observable through
// PendingAutoSave until it is persisted or superseded.
func (s *EnhancementSession) AutoSave(data models.CreateAdditionalTextInput) {
	if !s.opts.EnableAutoSave {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	d := data
	s.pendingAutoSave = &d
	s.hasUnsavedChanges = true
	s.timer = time.AfterFunc(s.opts.AutoSaveDelay, func() {
		s.fireAutoSave(d)
	})
}

func (s *EnhancementSession) fireAutoSave(data models.CreateAdditionalTextInput) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if strings.TrimSpace(data.Content) == "" {
		return
	}

	entry, err := s.service.SaveAdditionalText(context.Background(), s.videoID, data)
	if err != nil {
		// Best-effort by design: the unsaved-changes indicator stays
		// on, nothing interrupts the user.
		s.log.Errorf("Auto-save failed for video %s: %v", s.videoID, err)
		if s.opts.OnSaveError != nil {
			s.opts.OnSaveError(err.(*ServiceError))
		}
		return
	}

	s.mu.Lock()
	s.pendingAutoSave = nil
	s.hasUnsavedChanges = false
	s.mu.Unlock()

	if s.opts.OnSaveSuccess != nil {
		s.opts.OnSaveSuccess(*entry)
	}
}

// Save persists data immediately. Any pending auto-save is cancelled
// before the write is issued; manual save always wins the race.
func (s *EnhancementSession) Save(ctx context.Context, data models.CreateAdditionalTextInput) (*models.AdditionalTextEntry, error) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pendingAutoSave = nil
	s.mu.Unlock()

	entry, err := s.service.SaveAdditionalText(ctx, s.videoID, data)
	if err != nil {
		if s.opts.OnSaveError != nil {
			s.opts.OnSaveError(err.(*ServiceError))
		}
		return nil, err
	}

	s.mu.Lock()
	s.hasUnsavedChanges = false
	s.mu.Unlock()

	if s.opts.OnSaveSuccess != nil {
		s.opts.OnSaveSuccess(*entry)
	}
	return entry, nil
}

// Update applies a partial update to an existing entry.
func (s *EnhancementSession) Update(ctx context.Context, entryID string, data models.UpdateAdditionalTextInput) (*models.AdditionalTextEntry, error) {
	return s.service.UpdateAdditionalText(ctx, s.videoID, entryID, data)
}

// Delete removes an entry.
func (s *EnhancementSession) Delete(ctx context.Context, entryID string) error {
	return s.service.DeleteAdditionalText(ctx, s.videoID, entryID)
}

// Collection reads the video's additional text collection through the
// facade's cache.
func (s *EnhancementSession) Collection(ctx context.Context) (*models.AdditionalTextCollection, error) {
	return s.service.GetAdditionalTextCollection(ctx, s.videoID)
}

// Refetch drops the cached collection and reads it again from the
// store.
func (s *EnhancementSession) Refetch(ctx context.Context) (*models.AdditionalTextCollection, error) {
	s.service.InvalidateCollection(s.videoID)
	return s.service.GetAdditionalTextCollection(ctx, s.videoID)
}

// HasUnsavedChanges reports whether an auto-save window is open or a
// previous auto-save failed, i.e. whether the UI should show its
// unsaved-changes indicator.
func (s *EnhancementSession) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasUnsavedChanges
}

// PendingAutoSave returns the data waiting in the debounce window, or
// nil when nothing is pending.
func (s *EnhancementSession) PendingAutoSave() *models.CreateAdditionalTextInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingAutoSave == nil {
		return nil
	}
	d := *s.pendingAutoSave
	return &d
}

// Close cancels any pending auto-save and makes the session inert.
func (s *EnhancementSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
