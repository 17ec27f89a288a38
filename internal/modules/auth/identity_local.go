package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"maquidash/internal/docstore"
)

// LocalProvider authenticates against password hashes stored on profile
// documents in the users collection. Used when no hosted identity service
// is configured (local mode, tests).
type LocalProvider struct {
	store docstore.Store
}

func NewLocalProvider(store docstore.Store) *LocalProvider {
	return &LocalProvider{store: store}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, newError(CategoryInvalidEmail, nil)
	}

	docs, err := p.store.List(ctx, docstore.ColUsers)
	if err != nil {
		return nil, newError(CategoryUnknown, err)
	}

	for _, doc := range docs {
		docEmail, _ := doc.Data["email"].(string)
		if !strings.EqualFold(docEmail, email) {
			continue
		}
		if disabled, _ := doc.Data["disabled"].(bool); disabled {
			return nil, newError(CategoryUserDisabled, nil)
		}
		hash, _ := doc.Data["password_hash"].(string)
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return nil, newError(CategoryWrongPassword, err)
		}
		return &Identity{UID: doc.ID, Email: docEmail}, nil
	}

	return nil, newError(CategoryUserNotFound, nil)
}
