package handlers

import (
	"github.com/sirupsen/logrus"

	"videolearn/enhancement-api/store"
)

// ApplicationHandler holds shared dependencies for handlers. The store
// is an interface so tests can substitute a fake without a live
// Supabase project.
type ApplicationHandler struct {
	Store  store.AnnotationStore
	Logger *logrus.Logger
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(annotationStore store.AnnotationStore, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Store:  annotationStore,
		Logger: logger,
	}
}
