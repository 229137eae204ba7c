// Package service contains the business rules of the API.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes documents
//
// Services take plain values (strings, documents, request structs) and return
// apperror domain errors. They know nothing about HTTP status codes.
//
// Referential checks (a show's movie, a participant's event) are a read
// followed by a write with no transaction around them. A concurrent delete of
// the referenced document between the two is an accepted race.
package service

import (
	"github.com/sakif/trippila/internal/apperror"
	"github.com/sakif/trippila/internal/model"
)

// parseID converts an identifier from a path or body field, reporting a
// malformed value as a validation error rather than a not-found.
func parseID(field, raw string) (model.ID, error) {
	id, err := model.ParseID(raw)
	if err != nil {
		return model.ID{}, apperror.InvalidID(field, raw)
	}
	return id, nil
}
