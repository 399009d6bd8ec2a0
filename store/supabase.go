package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"videolearn/enhancement-api/models"
)

// SupabaseStore implements AnnotationStore on top of the Supabase
// PostgREST API.
type SupabaseStore struct {
	client *supa.Client
}

// NewSupabaseStore wraps an initialized Supabase client.
func NewSupabaseStore(client *supa.Client) *SupabaseStore {
	return &SupabaseStore{client: client}
}

// GetVideo fetches a video record by id.
func (s *SupabaseStore) GetVideo(videoID uuid.UUID) (*models.Video, error) {
	var videos []models.Video
	bodyBytes, _, err := s.client.From("videos").
		Select("*", "", false).
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching video %s: %w", videoID, err)
	}
	if err := json.Unmarshal(bodyBytes, &videos); err != nil {
		return nil, fmt.Errorf("error processing video data: %w", err)
	}
	if len(videos) == 0 {
		return nil, ErrNotFound
	}
	return &videos[0], nil
}

// ListAdditionalText returns all additional text entries for a video,
// oldest first.
func (s *SupabaseStore) ListAdditionalText(videoID uuid.UUID) ([]models.AdditionalTextEntry, error) {
	var entries []models.AdditionalTextEntry
	bodyBytes, _, err := s.client.From("additional_text").
		Select("*", "", false).
		Eq("video_id", videoID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching additional text for video %s: %w", videoID, err)
	}
	if err := json.Unmarshal(bodyBytes, &entries); err != nil {
		return nil, fmt.Errorf("error processing additional text data: %w", err)
	}
	if entries == nil {
		entries = []models.AdditionalTextEntry{}
	}
	return entries, nil
}

// CreateAdditionalText inserts a new entry and returns the stored
// representation.
func (s *SupabaseStore) CreateAdditionalText(entry models.AdditionalTextEntry) (*models.AdditionalTextEntry, error) {
	var created []models.AdditionalTextEntry
	bodyBytes, _, err := s.client.From("additional_text").
		Insert(entry, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error creating additional text for video %s: %w", entry.VideoID, err)
	}
	if err := json.Unmarshal(bodyBytes, &created); err != nil {
		return nil, fmt.Errorf("error processing additional text creation response: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("additional text creation returned no representation")
	}
	return &created[0], nil
}

// UpdateAdditionalText applies a partial update by (videoID, entryID).
// Returns ErrNotFound when no such entry exists for the video.
func (s *SupabaseStore) UpdateAdditionalText(videoID uuid.UUID, entryID string, updates map[string]interface{}) (*models.AdditionalTextEntry, error) {
	existing, err := s.getEntry(videoID, entryID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return existing, nil
	}
	updates["updated_at"] = time.Now()

	var updated models.AdditionalTextEntry
	bodyBytes, _, err := s.client.From("additional_text").
		Update(updates, "representation", "").
		Eq("id", entryID).
		Eq("video_id", videoID.String()).
		Single().
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error updating additional text %s: %w", entryID, err)
	}
	if err := json.Unmarshal(bodyBytes, &updated); err != nil {
		return nil, fmt.Errorf("error processing additional text update response: %w", err)
	}
	if updated.ID == "" {
		return nil, ErrNotFound
	}
	return &updated, nil
}

// DeleteAdditionalText removes an entry. Deleting an id that is
// already gone returns ErrNotFound so callers can distinguish
// "already deleted" from a transport failure.
func (s *SupabaseStore) DeleteAdditionalText(videoID uuid.UUID, entryID string) error {
	_, count, err := s.client.From("additional_text").
		Delete("minimal", "exact").
		Eq("id", entryID).
		Eq("video_id", videoID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("error deleting additional text %s: %w", entryID, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) getEntry(videoID uuid.UUID, entryID string) (*models.AdditionalTextEntry, error) {
	var entries []models.AdditionalTextEntry
	bodyBytes, _, err := s.client.From("additional_text").
		Select("*", "", false).
		Eq("id", entryID).
		Eq("video_id", videoID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("error fetching additional text %s: %w", entryID, err)
	}
	if err := json.Unmarshal(bodyBytes, &entries); err != nil {
		return nil, fmt.Errorf("error processing additional text data: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return &entries[0], nil
}
