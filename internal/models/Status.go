package models

// Status is the moderation state of a submitted Route or Place.
// There is exactly one copy of these literals; the mobile app, the
// backend and the admin dashboard all speak the same three values.
type Status string

const (
	StatusPending  Status = "pendiente"
	StatusApproved Status = "aprobada"
	StatusRejected Status = "rechazada"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
