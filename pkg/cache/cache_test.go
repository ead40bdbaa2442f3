package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

type entry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got []entry
	found, err := c.Get(ctx, "segments:r1", &got)
	if err != nil || found {
		t.Fatalf("Get() on empty cache = %v, %v", found, err)
	}

	want := []entry{{"VIP", 3}, {"Regular", 10}}
	if err := c.Set(ctx, "segments:r1", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	found, err = c.Get(ctx, "segments:r1", &got)
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v", found, err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Get() decoded %+v, want %+v", got, want)
	}

	if err := c.Delete(ctx, "segments:r1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	found, _ = c.Get(ctx, "segments:r1", &got)
	if found {
		t.Error("entry still present after Delete()")
	}
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache(time.Minute))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(context.Background(), "k", entry{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	var got entry
	if found, _ := c.Get(context.Background(), "k", &got); found {
		t.Error("expired entry was returned")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LOYALTY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOYALTY_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), addr, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}
