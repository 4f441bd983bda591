package model

import "time"

// Appointment statuses. Pendente moves to Confirmado, which moves to one of
// the terminal states. The labels are stored as-is; templates render them
// directly.
const (
	StatusPending   = "Pendente"
	StatusConfirmed = "Confirmado"
	StatusHeld      = "Realizada"
	StatusCancelled = "Cancelada"
	StatusConcluded = "Concluída"
)

// IsTerminal reports whether no further transition may leave the status.
func IsTerminal(status string) bool {
	switch status {
	case StatusHeld, StatusCancelled, StatusConcluded:
		return true
	}
	return false
}

type Appointment struct {
	ID               string
	ProfessionalID   string
	ProfessionalName string
	ClientEmail      string
	SessionAt        time.Time
	SessionType      string
	Duration         string
	Price            int
	SessionLink      string
	Status           string
	ClinicalNote     string
	CancelReason     string
	CreatedAt        time.Time
	FinalizedAt      *time.Time
	CancelledAt      *time.Time
}

// PendingBooking carries a booking between the scheduling form and the
// payment page. It lives server-side under an opaque id with a short TTL;
// the client only ever holds the id.
type PendingBooking struct {
	ProfessionalID   string    `json:"professional_id"`
	ProfessionalName string    `json:"professional_name"`
	SessionAt        time.Time `json:"session_at"`
	SessionType      string    `json:"session_type"`
	Duration         string    `json:"duration"`
	Price            int       `json:"price"`
}
