package enhancement

import "videolearn/enhancement-api/models"

// TranscriptPreference selects which transcript variant downstream
// text producers receive.
type TranscriptPreference string

const (
	PreferenceOriginal TranscriptPreference = "original"
	PreferenceEnhanced TranscriptPreference = "enhanced"
	PreferenceAuto     TranscriptPreference = "auto"
)

// AutoEnhanceThreshold is the minimum total annotation length, in
// characters, at which auto mode switches to the enhanced transcript.
// Trivial annotations should not trigger the more expensive enhanced
// downstream processing.
const AutoEnhanceThreshold = 100

// ShouldUseEnhanced decides whether the enhanced transcript should be
// handed to a downstream producer. Explicit preferences always win;
// auto mode applies the character threshold to the collection.
func ShouldUseEnhanced(collection models.AdditionalTextCollection, preference TranscriptPreference) bool {
	switch preference {
	case PreferenceOriginal:
		return false
	case PreferenceEnhanced:
		return true
	}
	total := 0
	for _, entry := range collection.Entries {
		total += len(entry.Content)
	}
	return total >= AutoEnhanceThreshold
}

// TranscriptForAIResult pairs the selected transcript text with a flag
// telling the producer which variant it received.
type TranscriptForAIResult struct {
	Transcript string `json:"transcript"`
	IsEnhanced bool   `json:"is_enhanced"`
}

// TranscriptForAI applies the decision policy and returns either the
// canonical sectioned merge or the verbatim original text. A video
// with no annotations always falls back to the original; this never
// fails for structurally valid input.
func TranscriptForAI(original models.OriginalTranscript, collection models.AdditionalTextCollection, preference TranscriptPreference) TranscriptForAIResult {
	if ShouldUseEnhanced(collection, preference) && len(collection.Entries) > 0 {
		opts := DefaultMergeOptions()
		opts.IncludeTimestamps = true
		merged := MergeSectioned(original, collection, opts)
		return TranscriptForAIResult{Transcript: merged.Text, IsEnhanced: true}
	}
	return TranscriptForAIResult{Transcript: original.RawText, IsEnhanced: false}
}
