package models

import (
	"time"

	"github.com/google/uuid"
)

// Video represents the structure of a video in the database. The
// transcript column holds the machine-generated text acquired from the
// external provider; it is replaced wholesale on re-acquisition.
type Video struct {
	ID               uuid.UUID  `json:"id"`
	UserID           string     `json:"user_id"`
	YoutubeID        *string    `json:"youtube_id,omitempty"`
	Title            string     `json:"title"`
	ChannelTitle     *string    `json:"channel_title,omitempty"`
	Duration         *float64   `json:"duration,omitempty"` // seconds
	Transcript       *string    `json:"transcript,omitempty"`
	TranscriptSource string     `json:"transcript_source"` // youtube | upload | manual
	TranscribedAt    *time.Time `json:"transcribed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// OriginalTranscript builds the immutable transcript view of the
// video. Returns ok=false when no transcript has been acquired yet.
func (v Video) OriginalTranscript() (OriginalTranscript, bool) {
	if v.Transcript == nil {
		return OriginalTranscript{}, false
	}
	generated := v.CreatedAt
	if v.TranscribedAt != nil {
		generated = *v.TranscribedAt
	}
	source := v.TranscriptSource
	if source == "" {
		source = "youtube"
	}
	return OriginalTranscript{
		VideoID:     v.ID,
		RawText:     *v.Transcript,
		Source:      source,
		GeneratedAt: generated,
	}, true
}
