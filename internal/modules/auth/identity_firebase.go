package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseProvider signs in against the hosted identity service's REST API.
type FirebaseProvider struct {
	apiKey string
	client *http.Client
}

func NewFirebaseProvider(apiKey string, client *http.Client) *FirebaseProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &FirebaseProvider{apiKey: apiKey, client: client}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, newError(CategoryUnknown, err)
	}

	url := fmt.Sprintf("%s?key=%s", signInEndpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newError(CategoryUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, newError(CategoryUnknown, err)
	}
	defer resp.Body.Close()

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, newError(CategoryUnknown, err)
	}

	if resp.StatusCode != http.StatusOK || out.Error != nil {
		msg := ""
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, newError(mapProviderCode(msg), fmt.Errorf("identity service: %s", msg))
	}

	return &Identity{UID: out.LocalID, Email: out.Email}, nil
}

func mapProviderCode(code string) Category {
	switch {
	case strings.HasPrefix(code, "INVALID_EMAIL"), strings.HasPrefix(code, "MISSING_EMAIL"):
		return CategoryInvalidEmail
	case strings.HasPrefix(code, "USER_DISABLED"):
		return CategoryUserDisabled
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"):
		return CategoryUserNotFound
	case strings.HasPrefix(code, "INVALID_PASSWORD"):
		return CategoryWrongPassword
	case strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"):
		return CategoryInvalidCredential
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return CategoryTooManyRequests
	default:
		return CategoryUnknown
	}
}
