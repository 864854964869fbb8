package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLastWriteWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_ = m.Set(ctx, "cars", 0, []byte(`[1]`))
	_ = m.Set(ctx, "cars", 0, []byte(`[2]`))

	got, ok, err := m.Get(ctx, "cars")
	if err != nil || !ok || string(got) != `[2]` {
		t.Fatalf("Get = %q ok=%v err=%v", got, ok, err)
	}

	_ = m.Invalidate(ctx, "cars")
	if _, ok, _ := m.Get(ctx, "cars"); ok {
		t.Fatal("entry survived invalidation")
	}
}

func TestMemorySetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	gen, err := m.Generation(ctx, "cars")
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	_ = m.Invalidate(ctx, "cars")

	if err := m.Set(ctx, "cars", gen, []byte(`[stale]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "cars"); ok {
		t.Fatal("list read before the invalidation was stored")
	}

	fresh, _ := m.Generation(ctx, "cars")
	if fresh != gen+1 {
		t.Fatalf("generation = %d, want %d", fresh, gen+1)
	}
	_ = m.Set(ctx, "cars", fresh, []byte(`[fresh]`))
	if got, ok, _ := m.Get(ctx, "cars"); !ok || string(got) != `[fresh]` {
		t.Fatalf("Get = %q ok=%v", got, ok)
	}
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", 0, []byte("v"))
	now = now.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expired entry returned")
	}
}
