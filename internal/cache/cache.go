// Package cache stores per-file analysis reports on disk. The caller
// supplies the key; the engine derives it from the content hash of the
// source file and the effective rule options, so a hit means neither
// the bytes nor the configuration changed since the last run.
package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pystyle/internal/diag"
)

// Поднимать при изменении формата Payload.
const schemaVersion uint16 = 1

// Digest — 32-байтовый ключ кэша (SHA-256).
type Digest = [32]byte

// Payload is the cached result of analyzing one file.
type Payload struct {
	Schema   uint16
	Path     string
	Degraded bool
	Items    []Entry
}

// Entry mirrors diag.Violation in a stable wire form.
type Entry struct {
	Line    uint32
	Col     uint32
	EndCol  uint32
	Code    uint16
	Message string
}

// Cache — дисковый кэш отчётов. Безопасен для конкурентного доступа.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes the cache at the standard XDG location.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenAt initializes the cache in an explicit directory. Tests use this.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "reports" — для удобства очистки вручную.
	return filepath.Join(c.dir, "reports", hexKey+".mp")
}

// Put serializes and atomically writes a report for the given key.
func (c *Cache) Put(key Digest, path string, degraded bool, items []diag.Violation) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := Payload{
		Schema:   schemaVersion,
		Path:     path,
		Degraded: degraded,
		Items:    make([]Entry, len(items)),
	}
	for i, v := range items {
		payload.Items[i] = Entry{
			Line:    v.Line,
			Col:     v.Col,
			EndCol:  v.EndCol,
			Code:    uint16(v.Code),
			Message: v.Message,
		}
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Hit is a decoded cache entry.
type Hit struct {
	Path     string
	Degraded bool
	Items    []diag.Violation
}

// Get reads a report back. The second return is false on a miss or a
// schema mismatch; stale schema entries are treated as absent.
func (c *Cache) Get(key Digest) (Hit, bool, error) {
	if c == nil {
		return Hit{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Hit{}, false, nil
		}
		return Hit{}, false, err
	}
	defer func() { _ = f.Close() }()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return Hit{}, false, err
	}
	if payload.Schema != schemaVersion {
		return Hit{}, false, nil
	}

	hit := Hit{
		Path:     payload.Path,
		Degraded: payload.Degraded,
		Items:    make([]diag.Violation, len(payload.Items)),
	}
	for i, e := range payload.Items {
		hit.Items[i] = diag.Violation{
			Line:    e.Line,
			Col:     e.Col,
			EndCol:  e.EndCol,
			Code:    diag.Code(e.Code),
			Message: e.Message,
		}
	}
	return hit, true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
