// Package store defines the logical annotation store contract and its
// Supabase-backed implementation. Handlers depend on the interface so
// tests can substitute a fake.
package store

import (
	"errors"

	"github.com/google/uuid"

	"videolearn/enhancement-api/models"
)

// ErrNotFound is returned when a referenced video or additional text
// entry does not exist.
var ErrNotFound = errors.New("record not found")

// AnnotationStore is the keyed record store for videos and their
// additional text entries. Annotations are scoped to a video; the
// store cascade-deletes them when the owning video is deleted (a
// schema-level FK responsibility).
type AnnotationStore interface {
	GetVideo(videoID uuid.UUID) (*models.Video, error)
	ListAdditionalText(videoID uuid.UUID) ([]models.AdditionalTextEntry, error)
	CreateAdditionalText(entry models.AdditionalTextEntry) (*models.AdditionalTextEntry, error)
	UpdateAdditionalText(videoID uuid.UUID, entryID string, updates map[string]interface{}) (*models.AdditionalTextEntry, error)
	DeleteAdditionalText(videoID uuid.UUID, entryID string) error
}
