package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TranscriptSegment is a single timed span of the original transcript.
type TranscriptSegment struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	StartTime *float64 `json:"start_time,omitempty"`
	EndTime   *float64 `json:"end_time,omitempty"`
	Speaker   *string  `json:"speaker,omitempty"`
}

// OriginalTranscript is the immutable machine-sourced transcript for a
// video. A new acquisition replaces the whole record; it is never
// patched in place.
type OriginalTranscript struct {
	VideoID     uuid.UUID           `json:"video_id"`
	RawText     string              `json:"raw_text"`
	Segments    []TranscriptSegment `json:"segments,omitempty"`
	Source      string              `json:"source"` // youtube | upload | manual
	GeneratedAt time.Time           `json:"generated_at"`
}

// DeriveSegments returns the structured segments when present,
// otherwise pseudo-segments produced by splitting the raw text on
// blank lines. Derived segments carry no timing information.
func (t OriginalTranscript) DeriveSegments() []TranscriptSegment {
	if len(t.Segments) > 0 {
		return t.Segments
	}
	var segments []TranscriptSegment
	for _, block := range strings.Split(t.RawText, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		segments = append(segments, TranscriptSegment{
			ID:   fmt.Sprintf("segment-%d", len(segments)+1),
			Text: block,
		})
	}
	return segments
}

// TranscriptMetadata summarizes an original transcript for display.
type TranscriptMetadata struct {
	WordCount            int  `json:"word_count"`
	EstimatedReadingTime int  `json:"estimated_reading_time"` // minutes
	HasTimestamps        bool `json:"has_timestamps"`
	HasSpeakerLabels     bool `json:"has_speaker_labels"`
}

// Metadata computes the display summary for the transcript. Reading
// time assumes 200 words per minute, rounded up, minimum one minute
// for non-empty text.
func (t OriginalTranscript) Metadata() TranscriptMetadata {
	words := len(strings.Fields(t.RawText))
	reading := 0
	if words > 0 {
		reading = (words + 199) / 200
	}
	meta := TranscriptMetadata{
		WordCount:            words,
		EstimatedReadingTime: reading,
	}
	for _, s := range t.Segments {
		if s.StartTime != nil {
			meta.HasTimestamps = true
		}
		if s.Speaker != nil {
			meta.HasSpeakerLabels = true
		}
	}
	return meta
}
