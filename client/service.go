package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"videolearn/enhancement-api/enhancement"
	"videolearn/enhancement-api/models"
)

const (
	collectionCacheTTL = 5 * time.Minute
	// Read-path retries on transient failures. Write paths never
	// retry, to avoid duplicate annotation creation.
	maxReadRetries = 2
)

// EnhancementService talks to the annotation store over HTTP. All
// methods validate their input before any network call and return
// *ServiceError on failure. Collection reads go through a short-lived
// cache that is invalidated after every successful write; reads may
// therefore lag an unacknowledged write, never the other way around.
type EnhancementService struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	cache      *gocache.Cache
	log        *logrus.Logger
}

// NewEnhancementService creates a facade for the API at baseURL,
// acting as the given user.
func NewEnhancementService(baseURL, userID string, log *logrus.Logger) *EnhancementService {
	if log == nil {
		log = logrus.New()
	}
	return &EnhancementService{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      gocache.New(collectionCacheTTL, 10*time.Minute),
		log:        log,
	}
}

// SetHTTPClient overrides the underlying HTTP client, mainly for tests.
func (s *EnhancementService) SetHTTPClient(c *http.Client) {
	s.httpClient = c
}

type successEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// SaveAdditionalText creates an entry for the video. Validation
// failures surface before the transport is touched.
func (s *EnhancementService) SaveAdditionalText(ctx context.Context, videoID uuid.UUID, input models.CreateAdditionalTextInput) (*models.AdditionalTextEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, &ServiceError{Message: err.Error(), Code: CodeValidationError}
	}

	var entry models.AdditionalTextEntry
	if err := s.do(ctx, http.MethodPost, s.annotationPath(videoID, ""), input, &entry); err != nil {
		return nil, err
	}
	s.invalidateCollection(videoID)
	return &entry, nil
}

// UpdateAdditionalText applies a partial update to an entry.
func (s *EnhancementService) UpdateAdditionalText(ctx context.Context, videoID uuid.UUID, entryID string, input models.UpdateAdditionalTextInput) (*models.AdditionalTextEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, &ServiceError{Message: err.Error(), Code: CodeValidationError}
	}

	var entry models.AdditionalTextEntry
	if err := s.do(ctx, http.MethodPut, s.annotationPath(videoID, entryID), input, &entry); err != nil {
		return nil, err
	}
	s.invalidateCollection(videoID)
	return &entry, nil
}

// DeleteAdditionalText removes an entry. A second delete of an already
// deleted id returns a not-found ServiceError rather than silently
// succeeding.
func (s *EnhancementService) DeleteAdditionalText(ctx context.Context, videoID uuid.UUID, entryID string) error {
	if err := s.do(ctx, http.MethodDelete, s.annotationPath(videoID, entryID), nil, nil); err != nil {
		return err
	}
	s.invalidateCollection(videoID)
	return nil
}

// GetAdditionalTextCollection reads the full collection for a video,
// through the cache. Transient failures are retried a bounded number
// of times; a 404 is terminal and never retried.
func (s *EnhancementService) GetAdditionalTextCollection(ctx context.Context, videoID uuid.UUID) (*models.AdditionalTextCollection, error) {
	if cached, ok := s.cache.Get(collectionCacheKey(videoID)); ok {
		collection := cached.(models.AdditionalTextCollection)
		return &collection, nil
	}

	var collection models.AdditionalTextCollection
	err := s.doWithRetry(ctx, http.MethodGet, s.annotationPath(videoID, ""), nil, &collection)
	if err != nil {
		return nil, err
	}
	s.cache.Set(collectionCacheKey(videoID), collection, collectionCacheTTL)
	return &collection, nil
}

// EnhancedTranscriptResponse mirrors the enhanced-transcript endpoint
// payload.
type EnhancedTranscriptResponse struct {
	OriginalTranscript models.OriginalTranscript          `json:"original_transcript"`
	Collection         models.AdditionalTextCollection    `json:"collection"`
	Merged             enhancement.MergedTranscriptResult `json:"merged"`
	Metadata           models.TranscriptMetadata          `json:"metadata"`
}

// GetEnhancedTranscript fetches the server-computed sectioned merge.
func (s *EnhancementService) GetEnhancedTranscript(ctx context.Context, videoID uuid.UUID, opts *enhancement.MergeOptions) (*EnhancedTranscriptResponse, error) {
	path := fmt.Sprintf("/api/v1/videos/%s/enhanced-transcript", videoID)
	if opts != nil {
		q := url.Values{}
		q.Set("include_timestamps", strconv.FormatBool(opts.IncludeTimestamps))
		q.Set("include_labels", strconv.FormatBool(opts.IncludeLabels))
		q.Set("separate_additional_text", strconv.FormatBool(opts.SeparateAdditionalText))
		if opts.AdditionalTextPrefix != "" {
			q.Set("additional_text_prefix", opts.AdditionalTextPrefix)
		}
		if opts.Format != "" {
			q.Set("format", string(opts.Format))
		}
		path += "?" + q.Encode()
	}

	var resp EnhancedTranscriptResponse
	if err := s.doWithRetry(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTranscriptForAI returns the transcript variant a downstream text
// producer should consume.
func (s *EnhancementService) GetTranscriptForAI(ctx context.Context, videoID uuid.UUID, preference enhancement.TranscriptPreference) (*enhancement.TranscriptForAIResult, error) {
	path := fmt.Sprintf("/api/v1/videos/%s/transcript-for-ai?preference=%s", videoID, preference)
	var result enhancement.TranscriptForAIResult
	if err := s.doWithRetry(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InvalidateCollection drops the cached collection for a video; the
// next read goes back to the store.
func (s *EnhancementService) InvalidateCollection(videoID uuid.UUID) {
	s.invalidateCollection(videoID)
}

func (s *EnhancementService) invalidateCollection(videoID uuid.UUID) {
	s.cache.Delete(collectionCacheKey(videoID))
}

func collectionCacheKey(videoID uuid.UUID) string {
	return "additional-text:" + videoID.String()
}

func (s *EnhancementService) annotationPath(videoID uuid.UUID, entryID string) string {
	path := fmt.Sprintf("/api/v1/videos/%s/additional-text", videoID)
	if entryID != "" {
		path += "/" + entryID
	}
	return path
}

// doWithRetry performs a read request, retrying transient failures
// (network errors and 5xx) with a short backoff. Terminal statuses
// are returned immediately.
func (s *EnhancementService) doWithRetry(ctx context.Context, method, path string, body, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= maxReadRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &ServiceError{Message: ctx.Err().Error(), Code: CodeNetworkError}
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
		err := s.do(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		serr := err.(*ServiceError)
		if serr.Code != CodeNetworkError && serr.Code != CodeServerError {
			return err
		}
		lastErr = err
		s.log.WithFields(logrus.Fields{"path": path, "attempt": attempt + 1}).Warnf("Read failed, will retry: %v", err)
	}
	return lastErr
}

// do performs one HTTP round-trip and maps the outcome onto the typed
// error taxonomy.
func (s *EnhancementService) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &ServiceError{Message: fmt.Sprintf("could not encode request: %v", err), Code: CodeValidationError}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return &ServiceError{Message: err.Error(), Code: CodeNetworkError}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", s.userID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &ServiceError{Message: err.Error(), Code: CodeNetworkError}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ServiceError{Message: err.Error(), Code: CodeNetworkError}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.Unmarshal(respBody, &envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		if envelope.Code == "" {
			envelope.Code = codeForStatus(resp.StatusCode)
		}
		return &ServiceError{Message: envelope.Message, StatusCode: resp.StatusCode, Code: envelope.Code}
	}

	if out == nil {
		return nil
	}
	var envelope successEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &ServiceError{Message: fmt.Sprintf("could not decode response: %v", err), StatusCode: resp.StatusCode, Code: CodeServerError}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &ServiceError{Message: fmt.Sprintf("could not decode response data: %v", err), StatusCode: resp.StatusCode, Code: CodeServerError}
	}
	return nil
}
