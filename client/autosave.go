package client

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"videolearn/enhancement-api/models"
)

// DefaultAutoSaveDebounce is the quiet period after the last edit
// before an auto-save fires.
const DefaultAutoSaveDebounce = 2000 * time.Millisecond

// AutoSaver batches rapid edits into a single persisted write per
// quiet period: each Schedule call supersedes any pending timer, so N
// calls inside the window produce exactly one save with the last data
// supplied. Save failures are logged and swallowed; auto-save is
// best-effort and must never surface a blocking error for content the
// user didn't explicitly submit.
type AutoSaver struct {
	mu       sync.Mutex
	timer    *time.Timer
	active   bool
	debounce time.Duration
	onSave   SaveFunc
	log      *logrus.Logger
}

// NewAutoSaver creates a coordinator that invokes onSave after each
// quiet period. A non-positive debounce falls back to the default.
func NewAutoSaver(onSave SaveFunc, debounce time.Duration, log *logrus.Logger) *AutoSaver {
	if debounce <= 0 {
		debounce = DefaultAutoSaveDebounce
	}
	if log == nil {
		log = logrus.New()
	}
	return &AutoSaver{
		active:   true,
		debounce: debounce,
		onSave:   onSave,
		log:      log,
	}
}

// Schedule cancels any pending save and arms a new one with data.
// Calls after Cleanup are ignored. When the timer fires, whitespace-
// only content is silently discarded rather than persisted.
func (a *AutoSaver) Schedule(data models.CreateAdditionalTextInput) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() {
		a.fire(data)
	})
}

func (a *AutoSaver) fire(data models.CreateAdditionalTextInput) {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	if strings.TrimSpace(data.Content) == "" {
		return
	}
	if err := a.onSave(data); err != nil {
		a.log.Errorf("Auto-save failed: %v", err)
	}
}

// Cleanup cancels any pending timer and makes the coordinator
// permanently inert. A cancelled timer never fires.
func (a *AutoSaver) Cleanup() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
