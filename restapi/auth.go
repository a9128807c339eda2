package restapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

var ErrEmptyToken = errors.New("bearer token is empty")

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a pre-acquired bearer token.
type StaticToken string

func (token StaticToken) Token(context.Context) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}
	return string(token), nil
}

// CredentialToken acquires tokens from an azcore credential and caches them until
// shortly before they expire.
type CredentialToken struct {
	credential azcore.TokenCredential
	scope      string

	mu      sync.Mutex
	current azcore.AccessToken
}

const tokenRefreshMargin = 2 * time.Minute

func NewCredentialToken(credential azcore.TokenCredential, scope string) *CredentialToken {
	return &CredentialToken{credential: credential, scope: scope}
}

func (source *CredentialToken) Token(ctx context.Context) (string, error) {
	source.mu.Lock()
	defer source.mu.Unlock()

	if source.current.Token != "" && time.Until(source.current.ExpiresOn) > tokenRefreshMargin {
		return source.current.Token, nil
	}

	token, err := source.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{source.scope}})
	if err != nil {
		return "", err
	}
	source.current = token
	return token.Token, nil
}

type skipAuthentication struct{}

// bearerPolicy sets the Authorization header unless the request carries skipAuthentication.
type bearerPolicy struct {
	source TokenSource
}

func (p *bearerPolicy) Do(req *policy.Request) (*http.Response, error) {
	var skip skipAuthentication
	if req.OperationValue(&skip) {
		return req.Next()
	}

	token, err := p.source.Token(req.Raw().Context())
	if err != nil {
		return nil, err
	}
	req.Raw().Header.Set("Authorization", "Bearer "+token)
	return req.Next()
}
