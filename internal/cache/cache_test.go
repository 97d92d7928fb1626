package cache

import (
	"crypto/sha256"
	"testing"

	"pystyle/internal/diag"
)

func TestCache_PutGetRoundtrip(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}

	key := sha256.Sum256([]byte("x=1\n"))
	items := []diag.Violation{
		diag.New(diag.MissingOpSpace, 1, 2, "Missing whitespace around operator \"=\""),
		diag.New(diag.TrailingWhitespace, 3, 5, "Trailing whitespace"),
	}

	if err := c.Put(key, "app.py", false, items); err != nil {
		t.Fatalf("Put: %v", err)
	}

	hit, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Path != "app.py" || hit.Degraded {
		t.Errorf("hit = %+v", hit)
	}
	if len(hit.Items) != len(items) {
		t.Fatalf("len = %d, want %d", len(hit.Items), len(items))
	}
	for i := range items {
		if hit.Items[i] != items[i] {
			t.Errorf("item %d = %v, want %v", i, hit.Items[i], items[i])
		}
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	key := sha256.Sum256([]byte("never stored"))
	if _, ok, err := c.Get(key); err != nil || ok {
		t.Errorf("Get = ok=%v err=%v, want miss", ok, err)
	}
}

func TestCache_NilSafe(t *testing.T) {
	var c *Cache
	if err := c.Put(Digest{}, "a.py", false, nil); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	if _, ok, err := c.Get(Digest{}); ok || err != nil {
		t.Errorf("nil Get: ok=%v err=%v", ok, err)
	}
}

func TestCache_DropAll(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	key := sha256.Sum256([]byte("x=1\n"))
	if err := c.Put(key, "a.py", false, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Error("entry survived DropAll")
	}
}

func TestCache_DifferentContentDifferentKey(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	k1 := sha256.Sum256([]byte("x=1\n"))
	k2 := sha256.Sum256([]byte("x = 1\n"))
	if err := c.Put(k1, "a.py", false, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := c.Get(k2); ok {
		t.Error("changed content must miss")
	}
}
