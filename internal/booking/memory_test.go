package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	want := model.PendingBooking{
		ProfessionalID:   "psi1",
		ProfessionalName: "Dr. Lucas Mendes",
		SessionAt:        time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		SessionType:      "Individual (50 min)",
		Duration:         "50min",
		Price:            180,
	}
	id, err := store.Put(ctx, want)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Fatalf("Get = %+v, want %+v", got, want)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired after delete, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	id, err := store.Put(context.Background(), model.PendingBooking{ProfessionalID: "psi2"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := store.Get(context.Background(), id); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestMemoryStoreUnknownID(t *testing.T) {
	store := NewMemoryStore(0)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
