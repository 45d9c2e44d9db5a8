// Package moderation holds the approval workflow shared by routes and
// places: who may change an entity's status, who may see it, and when a
// technician may submit a new one. Controllers fetch rows and persist
// results; everything here is pure.
package moderation

import (
	"errors"
	"fmt"
	"strings"

	"ruta_cafe/internal/models"
)

var (
	// ErrUnauthorized means the acting role may not perform the transition.
	ErrUnauthorized = errors.New("solo un administrador puede cambiar el estado")
	// ErrNotFound means the target entity does not exist.
	ErrNotFound = errors.New("entidad no encontrada")
	// ErrPendingExists means the creator already has a pending submission
	// of this entity type.
	ErrPendingExists = errors.New("ya existe una solicitud pendiente de revisión")
)

// ValidationError reports a malformed transition request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Actor is the viewer or caller of a moderation operation. Role and ID
// come from the JWT claims; a request without a token is a Visitor with
// ID zero.
type Actor struct {
	Role models.Role
	ID   uint
}

// Entity is the slice of a Route or Place the engine cares about.
type Entity interface {
	ModerationStatus() models.Status
	CreatorID() uint
}

// Decision is the outcome of an authorized transition: the new status
// and the rejection comment to persist alongside it. Approval always
// carries an empty comment so a stale rejection reason never survives
// onto an approved entity.
type Decision struct {
	Status           models.Status
	RejectionComment string
}

// Authorize validates a requested status change. Only administrators
// may transition, only into aprobada or rechazada, and a rejection must
// carry a non-empty comment.
func Authorize(requested models.Status, comment string, actor Actor) (Decision, error) {
	if actor.Role != models.RoleAdministrator {
		return Decision{}, ErrUnauthorized
	}
	switch requested {
	case models.StatusApproved:
		return Decision{Status: models.StatusApproved}, nil
	case models.StatusRejected:
		if strings.TrimSpace(comment) == "" {
			return Decision{}, &ValidationError{Field: "comentario", Reason: "comentario de rechazo requerido"}
		}
		return Decision{Status: models.StatusRejected, RejectionComment: comment}, nil
	default:
		return Decision{}, &ValidationError{Field: "estado", Reason: "estado solicitado inválido"}
	}
}

// CanView reports whether viewer may see a single entity.
// Administrators see everything; technicians see their own work in any
// state plus everyone's approved work; every other role (including
// unknown ones) sees approved entities only.
func CanView(e Entity, viewer Actor) bool {
	switch viewer.Role {
	case models.RoleAdministrator:
		return true
	case models.RoleTechnician:
		return e.CreatorID() == viewer.ID || e.ModerationStatus() == models.StatusApproved
	default:
		return e.ModerationStatus() == models.StatusApproved
	}
}

// Visible filters entities down to what viewer may see, preserving the
// input order.
func Visible[E Entity](entities []E, viewer Actor) []E {
	if viewer.Role == models.RoleAdministrator {
		return entities
	}
	out := make([]E, 0, len(entities))
	for _, e := range entities {
		if CanView(e, viewer) {
			out = append(out, e)
		}
	}
	return out
}

// CanCreate reports whether creatorID may submit a new entity of this
// type: refused while any of their existing entities is still pending.
// Existing is expected to be scoped to one entity type already.
func CanCreate[E Entity](existing []E, creatorID uint) bool {
	for _, e := range existing {
		if e.CreatorID() == creatorID && e.ModerationStatus() == models.StatusPending {
			return false
		}
	}
	return true
}

// CanEdit reports whether actor may change an entity's content fields.
// The creator keeps edit access even after rejection, so they can fix
// the entity for re-review.
func CanEdit(e Entity, actor Actor) bool {
	if actor.Role == models.RoleAdministrator {
		return true
	}
	return actor.Role == models.RoleTechnician && e.CreatorID() == actor.ID
}

// CanViewContact reports whether actor may see a place's phone and
// contact actions. Rejection hides contact details from everyone but
// administrators; likes and comments are unaffected.
func CanViewContact(status models.Status, actor Actor) bool {
	if actor.Role == models.RoleAdministrator {
		return true
	}
	return status != models.StatusRejected
}
