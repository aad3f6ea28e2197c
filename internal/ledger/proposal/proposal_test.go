package proposal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_ConsumeIsSingleUse(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	p := Proposal{Token: NewToken(), MatchID: 7, Winner: "A"}
	if err := m.Put(ctx, p, time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := m.Consume(ctx, p.Token)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if got.MatchID != 7 || got.Winner != "A" {
		t.Errorf("proposal = %+v", got)
	}

	if _, err := m.Consume(ctx, p.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Consume() error = %v, want ErrNotFound", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }

	p := Proposal{Token: NewToken(), MatchID: 7, Winner: "A"}
	if err := m.Put(ctx, p, time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Consume(ctx, p.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Consume() after TTL error = %v, want ErrNotFound", err)
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	p := Proposal{Token: NewToken(), MatchID: 7, Winner: "A"}
	if err := m.Put(ctx, p, time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := m.Delete(ctx, p.Token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := m.Delete(ctx, p.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}
