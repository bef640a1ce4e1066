package credentials

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// refresh once this share of the token lifetime has passed
	defaultExpiredFactor = 0.8

	// minimum spacing between refresh attempts
	defaultRefreshDuration = 120 * time.Second
)

type CredentialsFetcherOptions struct {
	ExpiredFactor   float64
	RefreshDuration time.Duration
}

// CredentialsFetcher obtains a fresh token from wherever tokens come from; a
// metadata server, an auth endpoint, a file.
type CredentialsFetcher interface {
	Fetch(ctx context.Context) (Credentials, error)
}

// CredentialsFetcherProvider caches the fetched token and refreshes it in the
// background of a request once it is close to expiring. A refresh failure
// while the cached token is still valid is swallowed: the cached token is
// served and the next refresh is pushed out.
type CredentialsFetcherProvider struct {
	m sync.Mutex

	credentials atomic.Value // *Credentials

	fetcher CredentialsFetcher

	expiredFactor   float64
	refreshDuration time.Duration
	nextRefreshTime *time.Time
}

func NewCredentialsFetcherProvider(fetcher CredentialsFetcher, optFns ...func(*CredentialsFetcherOptions)) CredentialsProvider {
	options := CredentialsFetcherOptions{
		ExpiredFactor:   defaultExpiredFactor,
		RefreshDuration: defaultRefreshDuration,
	}

	for _, fn := range optFns {
		fn(&options)
	}

	return &CredentialsFetcherProvider{
		fetcher:         fetcher,
		expiredFactor:   options.ExpiredFactor,
		refreshDuration: options.RefreshDuration,
	}
}

func (c *CredentialsFetcherProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	var curCreds *Credentials
	if v := c.credentials.Load(); v != nil {
		curCreds, _ = v.(*Credentials)
	}

	if curCreds == nil || curCreds.Expired() {
		c.m.Lock()
		defer c.m.Unlock()
		if v := c.credentials.Load(); v != nil {
			if creds, _ := v.(*Credentials); creds != curCreds && !creds.Expired() {
				return *creds, nil
			}
		}
		creds, err := c.fetch(ctx)
		if err == nil {
			c.update(&creds)
		}
		return creds, err
	}

	if c.shouldRefresh(curCreds) && c.m.TryLock() {
		defer c.m.Unlock()
		latest := c.credentials.Load().(*Credentials)
		if latest == curCreds {
			creds, err := c.fetch(ctx)
			if err == nil {
				c.update(&creds)
				curCreds = &creds
			} else {
				c.deferNextRefresh()
			}
		} else {
			curCreds = latest
		}
	}
	return *curCreds, nil
}

func (c *CredentialsFetcherProvider) fetch(ctx context.Context) (Credentials, error) {
	if c.fetcher == nil {
		return Credentials{}, errors.New("credentials fetcher is nil")
	}

	type fetchResult struct {
		val Credentials
		err error
	}
	ch := make(chan fetchResult, 1)
	go func() {
		creds, err := c.fetcher.Fetch(ctx)
		ch <- fetchResult{creds, err}
	}()

	select {
	case result := <-ch:
		return result.val, result.err
	case <-ctx.Done():
		return Credentials{}, ctx.Err()
	}
}

func (c *CredentialsFetcherProvider) update(creds *Credentials) {
	c.credentials.Store(creds)
	c.nextRefreshTime = nil
	if creds.Expires != nil {
		curr := time.Now().Round(0)
		lifetime := time.Duration(c.expiredFactor * float64(creds.Expires.Sub(curr)))
		if lifetime > c.refreshDuration {
			next := curr.Add(lifetime)
			c.nextRefreshTime = &next
		}
	}
}

func (c *CredentialsFetcherProvider) deferNextRefresh() {
	if c.nextRefreshTime != nil {
		next := time.Now().Round(0).Add(c.refreshDuration)
		c.nextRefreshTime = &next
	}
}

func (c *CredentialsFetcherProvider) shouldRefresh(creds *Credentials) bool {
	if creds.Expired() {
		return true
	}
	if c.nextRefreshTime != nil && !c.nextRefreshTime.After(time.Now().Round(0)) {
		return true
	}
	return false
}
