package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is a key-value document store partitioned by family. Writers are
// notified through Subscribe after every commit.
type Store struct {
	db  *sql.DB
	bus *bus
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, bus: newBus()}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Subscribe returns a channel that receives a Change for every committed
// write to family. The first notification is delivered immediately so the
// subscriber can load the initial state. Call cancel to stop.
func (s *Store) Subscribe(family string) (<-chan Change, func()) {
	return s.bus.subscribe(family)
}

// Get decodes the document at (family, key) into out. It reports false when
// the document does not exist.
func (s *Store) Get(ctx context.Context, family, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE family = ? AND key = ?`, family, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("document get %s/%s: %w", family, key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", family, key, err)
	}
	return true, nil
}

// Documents returns every document of a family.
func (s *Store) Documents(ctx context.Context, family string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT family, key, value, version, updated_at
		FROM documents
		WHERE family = ?
		ORDER BY key
	`, family)
	if err != nil {
		return nil, fmt.Errorf("documents list: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			d   Document
			raw string
		)
		if err := rows.Scan(&d.Family, &d.Key, &raw, &d.Version, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("documents scan: %w", err)
		}
		d.Value = json.RawMessage(raw)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("documents rows: %w", err)
	}
	return out, nil
}

// Save writes a single document.
func (s *Store) Save(ctx context.Context, family, key string, v any) error {
	b := NewBatch()
	b.Put(key, v)
	return s.SaveBatch(ctx, family, b)
}

// AppendToList adds v to an append-only list and returns the new item id.
func (s *Store) AppendToList(ctx context.Context, family, list string, v any) (string, error) {
	b := NewBatch()
	id := b.Append(list, "", v)
	if err := s.SaveBatch(ctx, family, b); err != nil {
		return "", err
	}
	return id, nil
}

// SaveBatch applies every write of b in one transaction. Either all writes
// become visible or none do.
func (s *Store) SaveBatch(ctx context.Context, family string, b *Batch) error {
	if strings.TrimSpace(family) == "" {
		return fmt.Errorf("family is required")
	}
	if b.err != nil {
		return b.err
	}
	if b.Empty() {
		return nil
	}

	now := time.Now().UTC()
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, p := range b.puts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO documents (family, key, value, version, updated_at)
				VALUES (?, ?, ?, 1, ?)
				ON CONFLICT(family, key) DO UPDATE SET
					value = excluded.value,
					version = documents.version + 1,
					updated_at = excluded.updated_at
			`, family, p.key, string(p.value), now); err != nil {
				return fmt.Errorf("document put %s/%s: %w", family, p.key, err)
			}
		}
		for _, a := range b.appends {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO list_items (family, list, id, value, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, family, a.list, a.id, string(a.value), now); err != nil {
				return fmt.Errorf("list append %s/%s: %w", family, a.list, err)
			}
		}
		for _, t := range b.trims {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM list_items
				WHERE family = ? AND list = ? AND seq NOT IN (
					SELECT seq FROM list_items
					WHERE family = ? AND list = ?
					ORDER BY seq DESC
					LIMIT ?
				)
			`, family, t.list, family, t.list, t.keep); err != nil {
				return fmt.Errorf("list trim %s/%s: %w", family, t.list, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bus.publish(Change{Family: family, Keys: b.keys()})
	return nil
}

// List returns the newest limit items of a list, newest first. A limit of
// zero or less returns every item.
func (s *Store) List(ctx context.Context, family, list string, limit int) ([]ListItem, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, value, created_at
		FROM list_items
		WHERE family = ? AND list = ?
		ORDER BY seq DESC
		LIMIT ?
	`, family, list, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", family, list, err)
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var (
			it  ListItem
			raw string
		)
		if err := rows.Scan(&it.Seq, &it.ID, &raw, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		it.Value = json.RawMessage(raw)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	return out, nil
}

// DeleteFamily removes every document and list item of family.
func (s *Store) DeleteFamily(ctx context.Context, family string) error {
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE family = ?`, family); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM list_items WHERE family = ?`, family); err != nil {
			return fmt.Errorf("delete list items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.bus.publish(Change{Family: family})
	return nil
}

// Batch collects document writes and list appends for SaveBatch.
type Batch struct {
	puts    []put
	appends []appendOp
	trims   []trimOp
	err     error
}

type put struct {
	key   string
	value []byte
}

type appendOp struct {
	list  string
	id    string
	value []byte
}

type trimOp struct {
	list string
	keep int
}

func NewBatch() *Batch { return &Batch{} }

// Put schedules a document write. A later Put of the same key wins.
func (b *Batch) Put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		b.fail(fmt.Errorf("encode %s: %w", key, err))
		return
	}
	for i := range b.puts {
		if b.puts[i].key == key {
			b.puts[i].value = data
			return
		}
	}
	b.puts = append(b.puts, put{key: key, value: data})
}

// Append schedules a list append and returns the item id. An empty id is
// replaced by a fresh UUID.
func (b *Batch) Append(list, id string, v any) string {
	if id == "" {
		id = uuid.NewString()
	}
	data, err := json.Marshal(v)
	if err != nil {
		b.fail(fmt.Errorf("encode %s item: %w", list, err))
		return id
	}
	b.appends = append(b.appends, appendOp{list: list, id: id, value: data})
	return id
}

// Trim keeps only the newest keep items of list after the appends.
func (b *Batch) Trim(list string, keep int) {
	if keep <= 0 {
		return
	}
	b.trims = append(b.trims, trimOp{list: list, keep: keep})
}

func (b *Batch) Empty() bool {
	return len(b.puts) == 0 && len(b.appends) == 0 && len(b.trims) == 0
}

func (b *Batch) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Batch) keys() []string {
	seen := map[string]bool{}
	var out []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, p := range b.puts {
		add(p.key)
	}
	for _, a := range b.appends {
		add(a.list)
	}
	for _, t := range b.trims {
		add(t.list)
	}
	return out
}
