package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInputValidation(t *testing.T) {
	valid := CreateAdditionalTextInput{Content: "a note", Label: "Context"}
	require.NoError(t, valid.Validate())

	// Every label in the closed set passes.
	for _, label := range AdditionalTextLabels {
		input := CreateAdditionalTextInput{Content: "x", Label: label}
		assert.NoError(t, input.Validate(), label)
	}

	assert.Error(t, CreateAdditionalTextInput{Content: "", Label: "Context"}.Validate())
	assert.Error(t, CreateAdditionalTextInput{Content: "x", Label: "Shouting"}.Validate())
	assert.Error(t, CreateAdditionalTextInput{Content: strings.Repeat("x", MaxContentLength + 1), Label: "Context"}.Validate())

	negative := -5.0
	assert.Error(t, CreateAdditionalTextInput{Content: "x", Label: "Context", Timestamp: &negative}.Validate())

	zero := 0.0
	assert.NoError(t, CreateAdditionalTextInput{Content: "x", Label: "Context", Timestamp: &zero}.Validate())

	bad := "sideways"
	assert.Error(t, CreateAdditionalTextInput{Content: "x", Label: "Context", Position: &bad}.Validate())
	inline := "inline"
	assert.NoError(t, CreateAdditionalTextInput{Content: "x", Label: "Context", Position: &inline}.Validate())

	boundary := CreateAdditionalTextInput{Content: strings.Repeat("x", MaxContentLength), Label: "Context"}
	assert.NoError(t, boundary.Validate())
}

func TestUpdateInputValidation(t *testing.T) {
	// All fields optional; the empty update is valid.
	assert.NoError(t, UpdateAdditionalTextInput{}.Validate())

	empty := ""
	assert.Error(t, UpdateAdditionalTextInput{Content: &empty}.Validate())

	label := "Speaker Note"
	assert.NoError(t, UpdateAdditionalTextInput{Label: &label}.Validate())

	bogus := "Bogus"
	assert.Error(t, UpdateAdditionalTextInput{Label: &bogus}.Validate())
}

func TestNewAdditionalTextCollection(t *testing.T) {
	videoID := uuid.New()
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	collection := NewAdditionalTextCollection(videoID, []AdditionalTextEntry{
		{ID: "a", VideoID: videoID, Content: "12345", UpdatedAt: older},
		{ID: "b", VideoID: videoID, Content: "678", UpdatedAt: newer},
	})

	assert.Equal(t, videoID, collection.VideoID)
	assert.Equal(t, 8, collection.TotalCharacters)
	assert.Equal(t, newer, collection.LastModified)
}

func TestNewAdditionalTextCollectionEmpty(t *testing.T) {
	collection := NewAdditionalTextCollection(uuid.New(), nil)

	assert.NotNil(t, collection.Entries)
	assert.Empty(t, collection.Entries)
	assert.Equal(t, 0, collection.TotalCharacters)
	assert.WithinDuration(t, time.Now(), collection.LastModified, time.Minute,
		"empty collections fall back to the current time")
}
