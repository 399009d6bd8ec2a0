// Package enhancement implements the pure transcript-merge engine and
// the original-vs-enhanced decision policy. Nothing in this package
// performs I/O or consults the clock; the same inputs always produce
// the same output.
package enhancement

import (
	"fmt"
	"sort"
	"strings"

	"videolearn/enhancement-api/models"
)

// Format selects the output flavor of a merge.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Section headers of the canonical merge. Downstream AI producers
// pattern-match on these literal strings to recognize enhancement
// boundaries, so they must never change.
const (
	TimestampedSectionHeader = "--- Additional Context & Insights ---"
	GeneralSectionHeader     = "--- General Notes & Corrections ---"
	InlineSectionHeader      = "--- Enhanced Content ---"
)

// MergeOptions controls fragment formatting.
type MergeOptions struct {
	IncludeTimestamps      bool
	IncludeLabels          bool
	SeparateAdditionalText bool
	AdditionalTextPrefix   string
	Format                 Format
}

// DefaultMergeOptions returns the option defaults used when a caller
// passes none.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		IncludeTimestamps:      false,
		IncludeLabels:          true,
		SeparateAdditionalText: true,
		AdditionalTextPrefix:   "[Additional Notes]: ",
		Format:                 FormatPlain,
	}
}

// MergedTranscriptResult is the ephemeral output of a merge.
type MergedTranscriptResult struct {
	Text             string `json:"text"`
	Format           Format `json:"format"`
	WordCount        int    `json:"word_count"`
	EnhancementCount int    `json:"enhancement_count"`
}

// Merge combines the original transcript with all additional text
// entries in one interleaved pass, sorted by timestamp ascending with
// missing timestamps treated as zero. Entries with equal timestamps
// keep their input order. This is the lightweight preview variant; AI
// consumers should use MergeSectioned instead.
func Merge(original models.OriginalTranscript, collection models.AdditionalTextCollection, opts MergeOptions) MergedTranscriptResult {
	if len(collection.Entries) == 0 {
		return passthrough(original, opts)
	}

	sorted := sortedByTimestamp(collection.Entries)

	var b strings.Builder
	b.WriteString(original.RawText)
	for _, entry := range sorted {
		if opts.SeparateAdditionalText {
			b.WriteString("\n\n")
			if opts.IncludeLabels {
				b.WriteString("[" + entry.Label + "]")
				if opts.IncludeTimestamps && entry.Timestamp != nil {
					b.WriteString(" (" + FormatTimestamp(*entry.Timestamp) + ")")
				}
				b.WriteString(": ")
			} else if opts.AdditionalTextPrefix != "" {
				b.WriteString(opts.AdditionalTextPrefix)
			}
		}
		b.WriteString(entry.Content)
	}

	text := b.String()
	return MergedTranscriptResult{
		Text:             text,
		Format:           opts.Format,
		WordCount:        countWords(text),
		EnhancementCount: len(collection.Entries),
	}
}

// MergeSectioned combines the original transcript with additional text
// as appended labeled sections: timestamped entries (sorted ascending)
// under TimestampedSectionHeader, untimestamped entries under
// GeneralSectionHeader. This is the canonical form handed to AI
// producers. With SeparateAdditionalText disabled all entries land in
// a single InlineSectionHeader block instead.
func MergeSectioned(original models.OriginalTranscript, collection models.AdditionalTextCollection, opts MergeOptions) MergedTranscriptResult {
	if len(collection.Entries) == 0 {
		return passthrough(original, opts)
	}

	var b strings.Builder
	b.WriteString(original.RawText)

	if !opts.SeparateAdditionalText {
		b.WriteString("\n\n" + InlineSectionHeader + "\n")
		for _, entry := range collection.Entries {
			b.WriteString("\n[" + entry.Label + "] " + entry.Content)
		}
	} else {
		var timestamped, general []models.AdditionalTextEntry
		for _, entry := range collection.Entries {
			if entry.Timestamp != nil {
				timestamped = append(timestamped, entry)
			} else {
				general = append(general, entry)
			}
		}
		timestamped = sortedByTimestamp(timestamped)

		if len(timestamped) > 0 {
			b.WriteString("\n\n" + TimestampedSectionHeader + "\n")
			for _, entry := range timestamped {
				writeSectionFragment(&b, entry, opts, true)
			}
		}
		if len(general) > 0 {
			b.WriteString("\n\n" + GeneralSectionHeader + "\n")
			for _, entry := range general {
				writeSectionFragment(&b, entry, opts, false)
			}
		}
	}

	text := b.String()
	return MergedTranscriptResult{
		Text:             text,
		Format:           opts.Format,
		WordCount:        countWords(text),
		EnhancementCount: len(collection.Entries),
	}
}

func writeSectionFragment(b *strings.Builder, entry models.AdditionalTextEntry, opts MergeOptions, timed bool) {
	var fragment strings.Builder
	if timed && opts.IncludeTimestamps && entry.Timestamp != nil {
		fragment.WriteString("(" + FormatTimestamp(*entry.Timestamp) + ") ")
	}
	if opts.IncludeLabels {
		fragment.WriteString("[" + entry.Label + "] ")
	}
	fragment.WriteString(entry.Content)

	if opts.Format == FormatMarkdown {
		b.WriteString("\n**" + fragment.String() + "**\n")
	} else {
		b.WriteString("\n" + fragment.String() + "\n")
	}
}

// passthrough is the zero-annotation result: byte-identical original
// text, untouched.
func passthrough(original models.OriginalTranscript, opts MergeOptions) MergedTranscriptResult {
	return MergedTranscriptResult{
		Text:             original.RawText,
		Format:           opts.Format,
		WordCount:        countWords(original.RawText),
		EnhancementCount: 0,
	}
}

// sortedByTimestamp returns a stably sorted copy; entries without a
// timestamp sort as zero. The input slice is never reordered.
func sortedByTimestamp(entries []models.AdditionalTextEntry) []models.AdditionalTextEntry {
	sorted := make([]models.AdditionalTextEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timestampOrZero(sorted[i]) < timestampOrZero(sorted[j])
	})
	return sorted
}

func timestampOrZero(entry models.AdditionalTextEntry) float64 {
	if entry.Timestamp == nil {
		return 0
	}
	return *entry.Timestamp
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// FormatTimestamp renders seconds as M:SS with zero-padded seconds,
// e.g. 90 -> "1:30". Minutes are not capped; this short form is used
// for entry timestamps in merged output and UI display.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatTimestampLong renders seconds as H:MM:SS for raw segment
// times, where source durations can exceed an hour.
func FormatTimestampLong(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
