package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"videolearn/enhancement-api/middleware"
	"videolearn/enhancement-api/models"
	"videolearn/enhancement-api/store"
	"videolearn/enhancement-api/utils"
)

// errNotOwner marks an ownership check failure. The response must not
// reveal whether the resource exists beyond a generic 403.
var errNotOwner = errors.New("caller does not own video")

// verifyVideoOwnership parses the video id, fetches the video and
// checks that the caller owns it.
func (h *ApplicationHandler) verifyVideoOwnership(c *fiber.Ctx) (*models.Video, error) {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return nil, fmt.Errorf("invalid video ID format")
	}

	video, err := h.Store.GetVideo(videoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != middleware.UserID(c) {
		return nil, errNotOwner
	}
	return video, nil
}

// respondOwnershipError maps verifyVideoOwnership failures onto the
// error envelope.
func (h *ApplicationHandler) respondOwnershipError(c *fiber.Ctx, err error) error {
	switch {
	case err.Error() == "invalid video ID format":
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error(), utils.CodeValidationError)
	case errors.Is(err, store.ErrNotFound):
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found", utils.CodeNotFound)
	case errors.Is(err, errNotOwner):
		return utils.RespondWithError(c, fiber.StatusForbidden, "Forbidden", utils.CodeUnauthorized)
	default:
		h.Logger.Errorf("Error verifying video ownership: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "An internal error occurred while verifying the video.", utils.CodeServerError)
	}
}

// ListAdditionalText returns the additional text collection for a video.
// GET /api/v1/videos/:videoId/additional-text
func (h *ApplicationHandler) ListAdditionalText(c *fiber.Ctx) error {
	video, err := h.verifyVideoOwnership(c)
	if err != nil {
		return h.respondOwnershipError(c, err)
	}

	entries, err := h.Store.ListAdditionalText(video.ID)
	if err != nil {
		h.Logger.Errorf("Error fetching additional text for video %s: %v", video.ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve additional text", utils.CodeServerError)
	}

	collection := models.NewAdditionalTextCollection(video.ID, entries)
	return utils.RespondWithJSON(c, fiber.StatusOK, collection)
}

// CreateAdditionalText adds a new additional text entry to a video.
// POST /api/v1/videos/:videoId/additional-text
func (h *ApplicationHandler) CreateAdditionalText(c *fiber.Ctx) error {
	video, err := h.verifyVideoOwnership(c)
	if err != nil {
		return h.respondOwnershipError(c, err)
	}

	var payload models.CreateAdditionalTextInput
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err), utils.CodeValidationError)
	}
	if err := payload.Validate(); err != nil {
		errs := utils.FormatValidationErrors(errors.Unwrap(err))
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "), utils.CodeValidationError)
	}

	now := time.Now()
	entry := models.AdditionalTextEntry{
		ID:        uuid.NewString(),
		VideoID:   video.ID,
		Content:   payload.Content,
		Label:     payload.Label,
		Timestamp: payload.Timestamp,
		Position:  payload.Position,
		SegmentID: payload.SegmentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.Store.CreateAdditionalText(entry)
	if err != nil {
		h.Logger.Errorf("Error creating additional text for video %s: %v", video.ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not create additional text", utils.CodeServerError)
	}

	h.Logger.Infof("Created additional text %s for video %s", created.ID, video.ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, created)
}

// UpdateAdditionalText applies a partial update to an entry.
// PUT /api/v1/videos/:videoId/additional-text/:entryId
func (h *ApplicationHandler) UpdateAdditionalText(c *fiber.Ctx) error {
	video, err := h.verifyVideoOwnership(c)
	if err != nil {
		return h.respondOwnershipError(c, err)
	}
	entryID := c.Params("entryId")

	var payload models.UpdateAdditionalTextInput
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err), utils.CodeValidationError)
	}
	if err := payload.Validate(); err != nil {
		errs := utils.FormatValidationErrors(errors.Unwrap(err))
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "), utils.CodeValidationError)
	}

	updates := make(map[string]interface{})
	if payload.Content != nil {
		updates["content"] = *payload.Content
	}
	if payload.Label != nil {
		updates["label"] = *payload.Label
	}
	if payload.Timestamp != nil {
		updates["timestamp"] = *payload.Timestamp
	}
	if payload.Position != nil {
		updates["position"] = *payload.Position
	}
	if payload.SegmentID != nil {
		updates["segment_id"] = *payload.SegmentID
	}

	updated, err := h.Store.UpdateAdditionalText(video.ID, entryID, updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Additional text entry not found", utils.CodeNotFound)
		}
		h.Logger.Errorf("Error updating additional text %s: %v", entryID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not update additional text", utils.CodeServerError)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// DeleteAdditionalText removes an entry. Repeat deletes of the same id
// report 404 so callers can tell "already gone" apart from a network
// failure.
// DELETE /api/v1/videos/:videoId/additional-text/:entryId
func (h *ApplicationHandler) DeleteAdditionalText(c *fiber.Ctx) error {
	video, err := h.verifyVideoOwnership(c)
	if err != nil {
		return h.respondOwnershipError(c, err)
	}
	entryID := c.Params("entryId")

	if err := h.Store.DeleteAdditionalText(video.ID, entryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Additional text entry not found", utils.CodeNotFound)
		}
		h.Logger.Errorf("Error deleting additional text %s: %v", entryID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not delete additional text", utils.CodeServerError)
	}

	h.Logger.Infof("Deleted additional text %s for video %s", entryID, video.ID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"message": "Additional text deleted"})
}
