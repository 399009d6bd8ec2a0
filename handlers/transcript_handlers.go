package handlers

import (
	"github.com/gofiber/fiber/v2"

	"videolearn/enhancement-api/enhancement"
	"videolearn/enhancement-api/models"
	"videolearn/enhancement-api/utils"
)

// mergeOptionsFromQuery reads merge options from the query string,
// falling back to the documented defaults for absent parameters.
func mergeOptionsFromQuery(c *fiber.Ctx) enhancement.MergeOptions {
	opts := enhancement.DefaultMergeOptions()
	opts.IncludeTimestamps = c.QueryBool("include_timestamps", opts.IncludeTimestamps)
	opts.IncludeLabels = c.QueryBool("include_labels", opts.IncludeLabels)
	opts.SeparateAdditionalText = c.QueryBool("separate_additional_text", opts.SeparateAdditionalText)
	if prefix := c.Query("additional_text_prefix"); prefix != "" {
		opts.AdditionalTextPrefix = prefix
	}
	switch c.Query("format") {
	case "markdown":
		opts.Format = enhancement.FormatMarkdown
	case "html":
		opts.Format = enhancement.FormatHTML
	}
	return opts
}

// GetEnhancedTranscript returns the canonical sectioned merge of the
// original transcript and all additional text for a video.
// GET /api/v1/videos/:videoId/enhanced-transcript
func (h *ApplicationHandler) GetEnhancedTranscript(c *fiber.Ctx) error {
	video, err := h.verifyVideoOwnership(c)
	if err != nil {
		return h.respondOwnershipError(c, err)
	}

	original, ok := video.OriginalTranscript()
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Original transcript not available", utils.CodeNotFound)
	}

	entries, err := h.Store.ListAdditionalText(video.ID)
	if err != nil {
		h.Logger.Errorf("Error fetching additional text for video %s: %v", video.ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve additional text", utils.CodeServerError)
	}

	collection := models.NewAdditionalTextCollection(video.ID, entries)
	result := enhancement.MergeSectioned(original, collection, mergeOptionsFromQuery(c))

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"original_transcript": original,
		"collection":          collection,
		"merged":              result,
		"metadata":            original.Metadata(),
	})
}

// GetTranscriptForAI hands downstream text producers the transcript
// variant selected by the decision policy. A video without annotations
// silently falls back to the original text.
// GET /api/v1/videos/:videoId/transcript-for-ai?preference=auto
func (h *ApplicationHandler) GetTranscriptForAI(c *fiber.Ctx) error {
	video, err := h.verifyVideoOwnership(c)
	if err != nil {
		return h.respondOwnershipError(c, err)
	}

	original, ok := video.OriginalTranscript()
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Original transcript not available", utils.CodeNotFound)
	}

	preference := enhancement.TranscriptPreference(c.Query("preference", string(enhancement.PreferenceAuto)))
	switch preference {
	case enhancement.PreferenceOriginal, enhancement.PreferenceEnhanced, enhancement.PreferenceAuto:
	default:
		return utils.RespondWithError(c, fiber.StatusBadRequest, "preference must be one of original, enhanced, auto", utils.CodeValidationError)
	}

	entries, err := h.Store.ListAdditionalText(video.ID)
	if err != nil {
		h.Logger.Errorf("Error fetching additional text for video %s: %v", video.ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve additional text", utils.CodeServerError)
	}

	collection := models.NewAdditionalTextCollection(video.ID, entries)
	result := enhancement.TranscriptForAI(original, collection, preference)

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}
