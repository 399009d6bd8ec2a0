package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videolearn/enhancement-api/models"
)

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeFailure(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message, "code": code})
}

func testEntry(videoID uuid.UUID) models.AdditionalTextEntry {
	return models.AdditionalTextEntry{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Content:   "stored note",
		Label:     "Context",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestServiceValid_SaveRoundTrip(t *testing.T) {
	videoID := uuid.New()
	var gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotUser = r.Header.Get("X-User-ID")
		var payload models.CreateAdditionalTextInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a note", payload.Content)
		writeData(w, http.StatusCreated, testEntry(videoID))
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	entry, err := svc.SaveAdditionalText(context.Background(), videoID, models.CreateAdditionalTextInput{
		Content: "a note",
		Label:   "Context",
	})
	require.NoError(t, err)
	assert.Equal(t, "stored note", entry.Content)
	assert.Equal(t, "user-1", gotUser)
}

func TestServiceValidatesBeforeNetworkCall(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeData(w, http.StatusCreated, testEntry(uuid.New()))
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())

	cases := []models.CreateAdditionalTextInput{
		{Content: "", Label: "Context"},                         // empty content
		{Content: strings.Repeat("x", 5001), Label: "Context"},  // too long
		{Content: "fine", Label: "Made Up Label"},               // label outside the closed set
		{Content: "fine", Label: "Context", Timestamp: func() *float64 { v := -1.0; return &v }()},
	}
	for _, input := range cases {
		_, err := svc.SaveAdditionalText(context.Background(), uuid.New(), input)
		require.Error(t, err)
		serr := err.(*ServiceError)
		assert.Equal(t, CodeValidationError, serr.Code)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "validation failures must never reach the transport")
}

func TestServiceDeleteMissingEntryIsTypedNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Additional text entry not found", CodeNotFound)
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	err := svc.DeleteAdditionalText(context.Background(), uuid.New(), "already-gone")
	require.Error(t, err)

	serr := err.(*ServiceError)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.Equal(t, CodeNotFound, serr.Code)
	assert.True(t, IsNotFound(err))
}

func TestServiceNetworkFailureIsTyped(t *testing.T) {
	// Point at a server that is already gone.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	_, err := svc.SaveAdditionalText(context.Background(), uuid.New(), models.CreateAdditionalTextInput{
		Content: "a note",
		Label:   "Context",
	})
	require.Error(t, err)

	serr := err.(*ServiceError)
	assert.Equal(t, CodeNetworkError, serr.Code)
	assert.Equal(t, 0, serr.StatusCode)
}

func TestServiceGetCollectionRetriesTransientFailures(t *testing.T) {
	videoID := uuid.New()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			writeFailure(w, http.StatusInternalServerError, "transient", CodeServerError)
			return
		}
		writeData(w, http.StatusOK, models.NewAdditionalTextCollection(videoID, []models.AdditionalTextEntry{testEntry(videoID)}))
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	collection, err := svc.GetAdditionalTextCollection(context.Background(), videoID)
	require.NoError(t, err)
	assert.Len(t, collection.Entries, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "one retry after the 500")
}

func TestServiceGetCollectionDoesNotRetryNotFound(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeFailure(w, http.StatusNotFound, "Video not found", CodeNotFound)
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	_, err := svc.GetAdditionalTextCollection(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "404 is terminal, never retried")
}

func TestServiceWritesAreNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeFailure(w, http.StatusInternalServerError, "boom", CodeServerError)
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	_, err := svc.SaveAdditionalText(context.Background(), uuid.New(), models.CreateAdditionalTextInput{
		Content: "a note",
		Label:   "Context",
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "a failed write must not be retried")
}

func TestServiceCollectionCacheAndInvalidation(t *testing.T) {
	videoID := uuid.New()
	var gets int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt32(&gets, 1)
			writeData(w, http.StatusOK, models.NewAdditionalTextCollection(videoID, nil))
		case http.MethodPost:
			writeData(w, http.StatusCreated, testEntry(videoID))
		}
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	ctx := context.Background()

	_, err := svc.GetAdditionalTextCollection(ctx, videoID)
	require.NoError(t, err)
	_, err = svc.GetAdditionalTextCollection(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gets), "second read comes from the cache")

	_, err = svc.SaveAdditionalText(ctx, videoID, models.CreateAdditionalTextInput{Content: "note", Label: "Context"})
	require.NoError(t, err)

	_, err = svc.GetAdditionalTextCollection(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gets), "a successful write invalidates the cache")
}

func TestServiceGetTranscriptForAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "original", r.URL.Query().Get("preference"))
		writeData(w, http.StatusOK, map[string]interface{}{"transcript": "raw text", "is_enhanced": false})
	}))
	defer server.Close()

	svc := NewEnhancementService(server.URL, "user-1", logrus.New())
	result, err := svc.GetTranscriptForAI(context.Background(), uuid.New(), "original")
	require.NoError(t, err)
	assert.Equal(t, "raw text", result.Transcript)
	assert.False(t, result.IsEnhanced)
}
