package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the primary key was left unset, so rows
// can be created with or without a caller-chosen id.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
