// Package booking holds bookings that have been priced but not yet paid.
// The value lives server-side under an opaque id with a short TTL; only the
// id travels to the client.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

// DefaultTTL bounds how long a shopper can sit on the payment page.
const DefaultTTL = 15 * time.Minute

var ErrExpired = errors.New("pending booking expired or not found")

type Store interface {
	// Put stores the booking and returns its generated id.
	Put(ctx context.Context, b model.PendingBooking) (string, error)
	// Get returns ErrExpired when the id is unknown or past its TTL.
	Get(ctx context.Context, id string) (model.PendingBooking, error)
	Delete(ctx context.Context, id string) error
}
