package docstore

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"
)

// Firebase bundles the hosted service handles the dashboard depends on:
// the document database, the identity service and blob storage.
type Firebase struct {
	App     *firebase.App
	Auth    *auth.Client
	Storage *storage.Client
	Store   *FirestoreStore
}

func NewFirebase(ctx context.Context, credentialsPath string) (*Firebase, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	return &Firebase{
		App:     app,
		Auth:    authClient,
		Storage: storageClient,
		Store:   &FirestoreStore{client: fsClient},
	}, nil
}

func (f *Firebase) Close() error {
	return f.Store.Close()
}
