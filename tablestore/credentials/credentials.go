package credentials

import (
	"context"
	"errors"
	"os"
	"time"
)

// Credentials is an access token used to authorize requests, plus its
// expiration when known.
type Credentials struct {
	Token   string
	Expires *time.Time
}

func (v Credentials) HasToken() bool {
	return len(v.Token) > 0
}

func (v Credentials) Expired() bool {
	if v.Expires != nil {
		return !v.Expires.After(time.Now().Round(0))
	}
	return false
}

type CredentialsProvider interface {
	GetCredentials(ctx context.Context) (Credentials, error)
}

type AnonymousCredentialsProvider struct{}

func (AnonymousCredentialsProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	return Credentials{Token: ""}, nil
}

type StaticCredentialsProvider struct {
	credentials Credentials
}

func NewStaticCredentialsProvider(token string) StaticCredentialsProvider {
	return StaticCredentialsProvider{
		credentials: Credentials{
			Token: token,
		},
	}
}

func (s StaticCredentialsProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	return s.credentials, nil
}

// EnvironmentVariableCredentialsProvider reads the access token from
// STRATUS_ACCESS_TOKEN.
type EnvironmentVariableCredentialsProvider struct{}

func NewEnvironmentVariableCredentialsProvider() EnvironmentVariableCredentialsProvider {
	return EnvironmentVariableCredentialsProvider{}
}

func (p EnvironmentVariableCredentialsProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	token := os.Getenv("STRATUS_ACCESS_TOKEN")
	if len(token) == 0 {
		return Credentials{}, errors.New("access token is empty or not present in the environment")
	}
	return Credentials{Token: token}, nil
}
