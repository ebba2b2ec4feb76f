package wire

import (
	"reserveit/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireResource(r chi.Router, resourceHandler *adaptor.ResourceHandler) {
	// GET /resources - list bookable resources
	r.Get("/resources", resourceHandler.GetResources)
}
