package client

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videolearn/enhancement-api/models"
)

const testDebounce = 30 * time.Millisecond

type saveRecorder struct {
	mu    sync.Mutex
	calls []models.CreateAdditionalTextInput
	err   error
}

func (r *saveRecorder) save(data models.CreateAdditionalTextInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, data)
	return r.err
}

func (r *saveRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *saveRecorder) last() models.CreateAdditionalTextInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func input(content string) models.CreateAdditionalTextInput {
	return models.CreateAdditionalTextInput{Content: content, Label: "Additional Notes"}
}

func TestAutoSaverDebounceCollapsesRapidCalls(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewAutoSaver(rec.save, testDebounce, logrus.New())
	defer saver.Cleanup()

	saver.Schedule(input("d1"))
	saver.Schedule(input("d2"))
	saver.Schedule(input("d3"))

	time.Sleep(3 * testDebounce)
	require.Equal(t, 1, rec.count(), "three rapid calls produce exactly one save")
	assert.Equal(t, "d3", rec.last().Content, "the last data supplied wins")
}

func TestAutoSaverSeparateQuietPeriodsEachFire(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewAutoSaver(rec.save, testDebounce, logrus.New())
	defer saver.Cleanup()

	saver.Schedule(input("first"))
	time.Sleep(3 * testDebounce)
	saver.Schedule(input("second"))
	time.Sleep(3 * testDebounce)

	assert.Equal(t, 2, rec.count())
}

func TestAutoSaverSkipsWhitespaceOnlyContent(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewAutoSaver(rec.save, testDebounce, logrus.New())
	defer saver.Cleanup()

	saver.Schedule(input("   \n\t"))
	time.Sleep(3 * testDebounce)

	assert.Equal(t, 0, rec.count(), "whitespace-only content is discarded, not persisted")
}

func TestAutoSaverCleanupStopsPendingSave(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewAutoSaver(rec.save, testDebounce, logrus.New())

	saver.Schedule(input("pending"))
	saver.Cleanup()

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, rec.count(), "a cancelled timer never fires")
}

func TestAutoSaverInertAfterCleanup(t *testing.T) {
	rec := &saveRecorder{}
	saver := NewAutoSaver(rec.save, testDebounce, logrus.New())

	saver.Cleanup()
	saver.Schedule(input("late"))

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, rec.count(), "scheduling after cleanup must not fire")
}

func TestAutoSaverSwallowsSaveErrors(t *testing.T) {
	rec := &saveRecorder{err: errors.New("store down")}
	saver := NewAutoSaver(rec.save, testDebounce, logrus.New())
	defer saver.Cleanup()

	// Nothing to assert beyond "does not panic and keeps working":
	// failures are logged, never re-raised.
	saver.Schedule(input("doomed"))
	time.Sleep(3 * testDebounce)
	require.Equal(t, 1, rec.count())

	saver.Schedule(input("next"))
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 2, rec.count(), "a failed auto-save does not poison the coordinator")
}
