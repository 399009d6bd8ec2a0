package client

import (
	"sync"

	"videolearn/enhancement-api/models"
)

// SaveFunc persists an in-progress edit. EditState re-raises its error
// to the caller untouched; the machine never retries.
type SaveFunc func(models.CreateAdditionalTextInput) error

// EditStateOptions seeds a new edit session. The initial values become
// the baseline that dirty tracking compares against for the lifetime
// of the machine.
type EditStateOptions struct {
	InitialValue     string
	InitialLabel     string
	InitialTimestamp *float64
	OnSave           SaveFunc
	OnCancel         func()
}

// EditState tracks a single in-progress additional text edit: field
// values, dirtiness relative to the construction-time baseline, and
// whether a save is in flight. It is discarded when the edit session
// ends; nothing here is persisted.
type EditState struct {
	mu sync.Mutex

	value     string
	label     string
	timestamp *float64

	initialValue     string
	initialLabel     string
	initialTimestamp *float64

	hasChanges bool
	saving     bool

	onSave   SaveFunc
	onCancel func()
}

// NewEditState builds a machine initialized from opts. A missing
// label defaults to models.DefaultLabel.
func NewEditState(opts EditStateOptions) *EditState {
	label := opts.InitialLabel
	if label == "" {
		label = models.DefaultLabel
	}
	return &EditState{
		value:            opts.InitialValue,
		label:            label,
		timestamp:        copyTimestamp(opts.InitialTimestamp),
		initialValue:     opts.InitialValue,
		initialLabel:     label,
		initialTimestamp: copyTimestamp(opts.InitialTimestamp),
		onSave:           opts.OnSave,
		onCancel:         opts.OnCancel,
	}
}

// SetValue updates the content field and recomputes dirtiness.
func (s *EditState) SetValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.recomputeChanges()
}

// SetLabel updates the label field and recomputes dirtiness.
func (s *EditState) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
	s.recomputeChanges()
}

// SetTimestamp updates the timestamp field and recomputes dirtiness.
// A nil timestamp means the edit is not tied to a moment in the video.
func (s *EditState) SetTimestamp(timestamp *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timestamp = copyTimestamp(timestamp)
	s.recomputeChanges()
}

// Value returns the current content field.
func (s *EditState) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Label returns the current label field.
func (s *EditState) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Timestamp returns the current timestamp field, nil when unset.
func (s *EditState) Timestamp() *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTimestamp(s.timestamp)
}

// HasChanges reports whether any field differs from the baseline
// captured at construction.
func (s *EditState) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasChanges
}

// IsSaving reports whether a save is in flight. Callers are expected
// to check this before triggering Save again; the machine does not
// queue concurrent saves.
func (s *EditState) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Save invokes the save callback with the current fields. It is a
// no-op when nothing changed or content is empty, guarding against
// persisting unmodified or blank entries. On success the machine
// becomes clean; on failure the error is returned to the caller, who
// decides how to surface it.
func (s *EditState) Save() error {
	s.mu.Lock()
	if s.onSave == nil || !s.hasChanges || len(s.value) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.saving = true
	data := models.CreateAdditionalTextInput{
		Content:   s.value,
		Label:     s.label,
		Timestamp: copyTimestamp(s.timestamp),
	}
	onSave := s.onSave
	s.mu.Unlock()

	err := onSave(data)

	s.mu.Lock()
	s.saving = false
	if err == nil {
		s.hasChanges = false
	}
	s.mu.Unlock()
	return err
}

// Cancel restores the baseline values and invokes the cancel callback
// if one was provided. The in-flight flag is left alone.
func (s *EditState) Cancel() {
	s.mu.Lock()
	s.value = s.initialValue
	s.label = s.initialLabel
	s.timestamp = copyTimestamp(s.initialTimestamp)
	s.hasChanges = false
	onCancel := s.onCancel
	s.mu.Unlock()

	if onCancel != nil {
		onCancel()
	}
}

// Reset clears the fields to a blank form (empty content, default
// label, no timestamp) regardless of the baseline. Dirtiness is still
// computed against the original baseline, so after Reset the machine
// reports changes whenever the baseline was not already blank. That is
// intentional: reset targets an empty form, not the initial values.
func (s *EditState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	s.label = models.DefaultLabel
	s.timestamp = nil
	s.recomputeChanges()
}

func (s *EditState) recomputeChanges() {
	s.hasChanges = s.value != s.initialValue ||
		s.label != s.initialLabel ||
		!timestampsEqual(s.timestamp, s.initialTimestamp)
}

func timestampsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyTimestamp(t *float64) *float64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
