package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// documentRow is the SQL shape of a stored document: one JSON blob per
// (collection path, id) pair.
type documentRow struct {
	Path      string    `gorm:"column:path;primaryKey"`
	DocID     string    `gorm:"column:doc_id;primaryKey"`
	Data      string    `gorm:"column:data"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (documentRow) TableName() string { return "documents" }

// SQLStore implements Store on a relational database, storing documents as
// JSON rows. It backs local development and tests; subscriptions are served
// by an in-process fanout that re-emits the full collection snapshot after
// every write, mirroring the hosted store's total-snapshot semantics.
type SQLStore struct {
	db *gorm.DB

	mu      sync.Mutex
	nextSub int64
	colSubs map[string]map[int64]func([]Document)
	docSubs map[string]map[int64]func(Document, bool)
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, err
	}
	return &SQLStore{
		db:      db,
		colSubs: make(map[string]map[int64]func([]Document)),
		docSubs: make(map[string]map[int64]func(Document, bool)),
	}, nil
}

func (s *SQLStore) List(ctx context.Context, path string) ([]Document, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	var rows []documentRow
	if err := s.db.WithContext(ctx).Where("path = ?", path).Order("doc_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

func (s *SQLStore) ListOrdered(ctx context.Context, path, field string, desc bool) ([]Document, error) {
	docs, err := s.List(ctx, path)
	if err != nil {
		return nil, err
	}
	// Best-effort ordering on the raw field value. Heterogeneous field types
	// make this approximate, which is exactly why callers re-sort anyway.
	sort.SliceStable(docs, func(i, j int) bool {
		less := compareRaw(docs[i].Data[field], docs[j].Data[field]) < 0
		if desc {
			return !less
		}
		return less
	})
	return docs, nil
}

func (s *SQLStore) Get(ctx context.Context, path, id string) (Document, error) {
	if !ValidCollectionPath(path) {
		return Document{}, ErrInvalidPath
	}
	var row documentRow
	err := s.db.WithContext(ctx).Where("path = ? AND doc_id = ?", path, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return decodeRow(row)
}

func (s *SQLStore) Set(ctx context.Context, path, id string, data map[string]any) error {
	if !ValidCollectionPath(path) {
		return ErrInvalidPath
	}
	if err := s.merge(ctx, path, id, data); err != nil {
		return err
	}
	s.notify(ctx, path, id)
	return nil
}

func (s *SQLStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	if !ValidCollectionPath(path) {
		return ErrInvalidPath
	}
	if _, err := s.Get(ctx, path, id); err != nil {
		return err
	}
	if err := s.merge(ctx, path, id, fields); err != nil {
		return err
	}
	s.notify(ctx, path, id)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, path, id string) error {
	if !ValidCollectionPath(path) {
		return ErrInvalidPath
	}
	if err := s.db.WithContext(ctx).
		Where("path = ? AND doc_id = ?", path, id).
		Delete(&documentRow{}).Error; err != nil {
		return err
	}
	s.notify(ctx, path, id)
	return nil
}

func (s *SQLStore) SubscribeCollection(path string, fn func([]Document)) (Unsubscribe, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	if s.colSubs[path] == nil {
		s.colSubs[path] = make(map[int64]func([]Document))
	}
	s.colSubs[path][id] = fn
	s.mu.Unlock()

	// Initial snapshot, like the hosted store delivers.
	if docs, err := s.List(context.Background(), path); err == nil {
		fn(docs)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.colSubs[path], id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *SQLStore) SubscribeDoc(path, id string, fn func(Document, bool)) (Unsubscribe, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	key := path + "/" + id
	s.mu.Lock()
	s.nextSub++
	subID := s.nextSub
	if s.docSubs[key] == nil {
		s.docSubs[key] = make(map[int64]func(Document, bool))
	}
	s.docSubs[key][subID] = fn
	s.mu.Unlock()

	doc, err := s.Get(context.Background(), path, id)
	if errors.Is(err, ErrNotFound) {
		fn(Document{ID: id}, false)
	} else if err == nil {
		fn(doc, true)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.docSubs[key], subID)
			s.mu.Unlock()
		})
	}, nil
}

func (s *SQLStore) Bulk() BulkWriter {
	return &sqlBulk{store: s}
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) merge(ctx context.Context, path, id string, data map[string]any) error {
	var row documentRow
	merged := map[string]any{}
	err := s.db.WithContext(ctx).Where("path = ? AND doc_id = ?", path, id).First(&row).Error
	switch {
	case err == nil:
		if uerr := json.Unmarshal([]byte(row.Data), &merged); uerr != nil {
			merged = map[string]any{}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// new document
	default:
		return err
	}
	for k, v := range data {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(&documentRow{
		Path:      path,
		DocID:     id,
		Data:      string(raw),
		UpdatedAt: time.Now().UTC(),
	}).Error
}

// notify re-emits the collection snapshot and the document state to every
// live subscriber. Runs after the write is committed; listeners observe the
// latest state, not the delta.
func (s *SQLStore) notify(ctx context.Context, path, id string) {
	s.mu.Lock()
	colFns := make([]func([]Document), 0, len(s.colSubs[path]))
	for _, fn := range s.colSubs[path] {
		colFns = append(colFns, fn)
	}
	key := path + "/" + id
	docFns := make([]func(Document, bool), 0, len(s.docSubs[key]))
	for _, fn := range s.docSubs[key] {
		docFns = append(docFns, fn)
	}
	s.mu.Unlock()

	if len(colFns) > 0 {
		if docs, err := s.List(ctx, path); err == nil {
			for _, fn := range colFns {
				fn(docs)
			}
		}
	}
	if len(docFns) > 0 {
		doc, err := s.Get(ctx, path, id)
		exists := err == nil
		if !exists {
			doc = Document{ID: id}
		}
		for _, fn := range docFns {
			fn(doc, exists)
		}
	}
}

type sqlBulk struct {
	store *SQLStore
	ops   []bulkOp
}

func (b *sqlBulk) Set(path, id string, data map[string]any) {
	b.ops = append(b.ops, bulkOp{path: path, id: id, data: data})
}

func (b *sqlBulk) Commit(ctx context.Context) (int, error) {
	applied := 0
	touched := map[string]bool{}
	for _, chunk := range chunkOps(b.ops, MaxBatchOps) {
		applied++
		err := b.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, op := range chunk {
				if err := b.store.mergeTx(tx, op.path, op.id, op.data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		for _, op := range chunk {
			touched[op.path] = true
		}
	}
	for path := range touched {
		s := b.store
		s.mu.Lock()
		fns := make([]func([]Document), 0, len(s.colSubs[path]))
		for _, fn := range s.colSubs[path] {
			fns = append(fns, fn)
		}
		s.mu.Unlock()
		if len(fns) > 0 {
			if docs, err := s.List(ctx, path); err == nil {
				for _, fn := range fns {
					fn(docs)
				}
			}
		}
	}
	b.ops = nil
	return applied, nil
}

func (s *SQLStore) mergeTx(tx *gorm.DB, path, id string, data map[string]any) error {
	var row documentRow
	merged := map[string]any{}
	err := tx.Where("path = ? AND doc_id = ?", path, id).First(&row).Error
	switch {
	case err == nil:
		if uerr := json.Unmarshal([]byte(row.Data), &merged); uerr != nil {
			merged = map[string]any{}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return err
	}
	for k, v := range data {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return tx.Save(&documentRow{
		Path:      path,
		DocID:     id,
		Data:      string(raw),
		UpdatedAt: time.Now().UTC(),
	}).Error
}

func decodeRows(rows []documentRow) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeRow(row documentRow) (Document, error) {
	data := map[string]any{}
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return Document{}, fmt.Errorf("document %s/%s: %w", row.Path, row.DocID, err)
	}
	return Document{ID: row.DocID, Data: data}, nil
}

func compareRaw(a, b any) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
