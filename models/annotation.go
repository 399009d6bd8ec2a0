package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AdditionalTextLabels is the closed set of labels an additional text
// entry may carry. Free-text labels are rejected at validation time.
var AdditionalTextLabels = []string{
	"Additional Notes",
	"Context",
	"Correction",
	"Clarification",
	"Speaker Note",
	"Technical Detail",
	"Reference",
	"Summary",
}

// DefaultLabel is the label applied when the user has not picked one.
const DefaultLabel = "Additional Notes"

// MaxContentLength bounds the content of a single entry.
const MaxContentLength = 5000

// AdditionalTextEntry represents a user-authored note attached to a
// video's transcript, as stored in the additional_text table.
type AdditionalTextEntry struct {
	ID        string    `json:"id"`
	VideoID   uuid.UUID `json:"video_id"`
	Content   string    `json:"content"`
	Label     string    `json:"label"`
	Timestamp *float64  `json:"timestamp,omitempty"`  // seconds into the video
	Position  *string   `json:"position,omitempty"`   // before | after | inline
	SegmentID *string   `json:"segment_id,omitempty"` // lookup only, not ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdditionalTextCollection is the derived view of all entries for one
// video. It is recomputed from the entry set on every read and never
// persisted as its own record.
type AdditionalTextCollection struct {
	VideoID         uuid.UUID             `json:"video_id"`
	Entries         []AdditionalTextEntry `json:"entries"`
	TotalCharacters int                   `json:"total_characters"`
	LastModified    time.Time             `json:"last_modified"`
}

// NewAdditionalTextCollection derives the collection for a video from
// its entry set. LastModified falls back to now for an empty set.
func NewAdditionalTextCollection(videoID uuid.UUID, entries []AdditionalTextEntry) AdditionalTextCollection {
	if entries == nil {
		entries = []AdditionalTextEntry{}
	}
	total := 0
	last := time.Time{}
	for _, e := range entries {
		total += len(e.Content)
		if e.UpdatedAt.After(last) {
			last = e.UpdatedAt
		}
	}
	if last.IsZero() {
		last = time.Now()
	}
	return AdditionalTextCollection{
		VideoID:         videoID,
		Entries:         entries,
		TotalCharacters: total,
		LastModified:    last,
	}
}

// CreateAdditionalTextInput is the payload for creating a new entry.
type CreateAdditionalTextInput struct {
	Content   string   `json:"content" validate:"required,max=5000"`
	Label     string   `json:"label" validate:"required,additional_text_label"`
	Timestamp *float64 `json:"timestamp,omitempty" validate:"omitempty,gte=0"`
	Position  *string  `json:"position,omitempty" validate:"omitempty,oneof=before after inline"`
	SegmentID *string  `json:"segment_id,omitempty"`
}

// UpdateAdditionalTextInput is the payload for a partial update. All
// fields are optional; absent fields leave the stored value untouched.
type UpdateAdditionalTextInput struct {
	Content   *string  `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Label     *string  `json:"label,omitempty" validate:"omitempty,additional_text_label"`
	Timestamp *float64 `json:"timestamp,omitempty" validate:"omitempty,gte=0"`
	Position  *string  `json:"position,omitempty" validate:"omitempty,oneof=before after inline"`
	SegmentID *string  `json:"segment_id,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Labels contain spaces, so the stock oneof tag cannot express the
	// enumeration.
	_ = v.RegisterValidation("additional_text_label", func(fl validator.FieldLevel) bool {
		return IsValidLabel(fl.Field().String())
	})
	return v
}

// IsValidLabel reports whether label belongs to the closed label set.
func IsValidLabel(label string) bool {
	for _, l := range AdditionalTextLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Validate checks the create payload against the data-model
// constraints. It must be called before any network or store call.
func (in CreateAdditionalTextInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid additional text input: %w", err)
	}
	return nil
}

// Validate checks the update payload. An empty update is valid; the
// store treats it as a no-op returning the existing entry.
func (in UpdateAdditionalTextInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid additional text update: %w", err)
	}
	return nil
}
