package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/storage"
)

// Collection keys in the persistent store.
const (
	UsersKey     = "users"
	ProjectsKey  = "projects"
	AccessLogKey = "accessLog"
	SessionKey   = "session"

	sequencePrefix = "sequence:"
)

// Clock returns the current time. Repositories use it to stamp dates.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Today formats t as a calendar date.
func Today(t time.Time) string {
	return t.Format(time.DateOnly)
}

// collection is a whole-key JSON view over one store entry. Every read
// decodes the full value and every write re-encodes it; there is no cache.
type collection[T any] struct {
	store storage.Store
	key   string
	// mu serializes read-modify-write cycles of this process.
	mu *sync.Mutex
}

func newCollection[T any](store storage.Store, key string) collection[T] {
	return collection[T]{store: store, key: key, mu: &sync.Mutex{}}
}

// load returns the decoded records and whether the key was present.
func (c collection[T]) load(ctx context.Context) ([]T, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !ok {
		return []T{}, false, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, fmt.Errorf("%w %q: %v", apperrors.ErrCorruptCollection, c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// lastSequence reads the high-water id of the collection.
func (c collection[T]) lastSequence(ctx context.Context) (int, error) {
	raw, ok, err := c.store.Get(ctx, sequencePrefix+c.key)
	if err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", c.key, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%w %q: bad sequence %q", apperrors.ErrCorruptCollection, c.key, raw)
	}
	return n, nil
}

func (c collection[T]) storeSequence(ctx context.Context, n int) error {
	if err := c.store.Set(ctx, sequencePrefix+c.key, []byte(strconv.Itoa(n))); err != nil {
		return fmt.Errorf("write sequence %s: %w", c.key, err)
	}
	return nil
}

// nextID returns max(existing ids, stored sequence) + 1 so deleted ids are
// never handed out again.
func (c collection[T]) nextID(ctx context.Context, items []T, idOf func(*T) int) (int, error) {
	maxID, err := c.lastSequence(ctx)
	if err != nil {
		return 0, err
	}
	for i := range items {
		if id := idOf(&items[i]); id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// indexOf returns the position of the first record with id, or -1.
func indexOf[T any](items []T, id int, idOf func(*T) int) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

// merge shallow-merges patch over the JSON document of record. Keys absent
// from patch are preserved and the "id" key is ignored.
func merge[T any](record T, patch map[string]any) (T, error) {
	if len(patch) == 0 {
		return record, nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return record, err
	}
	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return record, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return record, fmt.Errorf("%w: field %q: %v", apperrors.ErrValidation, k, err)
		}
		doc[k] = encoded
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return record, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return record, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return out, nil
}
