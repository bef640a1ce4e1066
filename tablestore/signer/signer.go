package signer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/credentials"
)

type SigningContext struct {
	//input
	Region  *string
	Table   *string
	Request *http.Request

	Credentials *credentials.Credentials

	// input and output
	Time time.Time
}

type Signer interface {
	Sign(ctx context.Context, signingCtx *SigningContext) error
}

type NopSigner struct{}

func (*NopSigner) Sign(ctx context.Context, signingCtx *SigningContext) error {
	return nil
}

// TokenSigner authorizes a request with a bearer access token. Signing
// happens per attempt, not per call, so rotated tokens are picked up between
// retries.
type TokenSigner struct{}

const (
	authorizationHeader = "Authorization"
	dateHeader          = "X-Stratus-Date"
)

func (*TokenSigner) Sign(ctx context.Context, signingCtx *SigningContext) error {
	if signingCtx == nil {
		return errors.New("signer: signing context is nil")
	}
	if signingCtx.Request == nil {
		return errors.New("signer: signing context request is nil")
	}
	if signingCtx.Credentials == nil || !signingCtx.Credentials.HasToken() {
		// anonymous request
		return nil
	}

	if signingCtx.Time.IsZero() {
		signingCtx.Time = time.Now().UTC()
	}
	signingCtx.Request.Header.Set(dateHeader, signingCtx.Time.Format(http.TimeFormat))
	signingCtx.Request.Header.Set(authorizationHeader, "Bearer "+signingCtx.Credentials.Token)
	return nil
}
