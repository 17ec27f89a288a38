package docstore

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on the hosted document database.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) List(ctx context.Context, path string) ([]Document, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	return drain(s.client.Collection(path).Documents(ctx))
}

func (s *FirestoreStore) ListOrdered(ctx context.Context, path, field string, desc bool) ([]Document, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	dir := firestore.Asc
	if desc {
		dir = firestore.Desc
	}
	return drain(s.client.Collection(path).OrderBy(field, dir).Documents(ctx))
}

func (s *FirestoreStore) Get(ctx context.Context, path, id string) (Document, error) {
	if !ValidCollectionPath(path) {
		return Document{}, ErrInvalidPath
	}
	snap, err := s.client.Collection(path).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, path, id string, data map[string]any) error {
	if !ValidCollectionPath(path) {
		return ErrInvalidPath
	}
	_, err := s.client.Collection(path).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	if !ValidCollectionPath(path) {
		return ErrInvalidPath
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := s.client.Collection(path).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, path, id string) error {
	if !ValidCollectionPath(path) {
		return ErrInvalidPath
	}
	_, err := s.client.Collection(path).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) SubscribeCollection(path string, fn func([]Document)) (Unsubscribe, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	ctx, cancel := context.WithCancel(context.Background())
	snaps := s.client.Collection(path).Snapshots(ctx)

	go func() {
		for {
			snap, err := snaps.Next()
			if err != nil {
				// Cancellation or a terminal stream error; either way the
				// subscription is over.
				return
			}
			docs, err := drain(snap.Documents)
			if err != nil {
				continue
			}
			fn(docs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			snaps.Stop()
		})
	}, nil
}

func (s *FirestoreStore) SubscribeDoc(path, id string, fn func(Document, bool)) (Unsubscribe, error) {
	if !ValidCollectionPath(path) {
		return nil, ErrInvalidPath
	}
	ctx, cancel := context.WithCancel(context.Background())
	snaps := s.client.Collection(path).Doc(id).Snapshots(ctx)

	go func() {
		for {
			snap, err := snaps.Next()
			if err != nil {
				return
			}
			if !snap.Exists() {
				fn(Document{ID: id}, false)
				continue
			}
			fn(Document{ID: snap.Ref.ID, Data: snap.Data()}, true)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			snaps.Stop()
		})
	}, nil
}

func (s *FirestoreStore) Bulk() BulkWriter {
	return &firestoreBulk{store: s}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreBulk struct {
	store *FirestoreStore
	ops   []bulkOp
}

func (b *firestoreBulk) Set(path, id string, data map[string]any) {
	b.ops = append(b.ops, bulkOp{path: path, id: id, data: data})
}

func (b *firestoreBulk) Commit(ctx context.Context) (int, error) {
	applied := 0
	for _, chunk := range chunkOps(b.ops, MaxBatchOps) {
		batch := b.store.client.Batch()
		for _, op := range chunk {
			ref := b.store.client.Collection(op.path).Doc(op.id)
			batch.Set(ref, op.data, firestore.MergeAll)
		}
		applied++
		if _, err := batch.Commit(ctx); err != nil {
			return applied, err
		}
	}
	b.ops = nil
	return applied, nil
}

func drain(it *firestore.DocumentIterator) ([]Document, error) {
	defer it.Stop()
	docs := make([]Document, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
}
