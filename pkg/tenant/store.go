// Package tenant caches the persisted website document of one tenant.
//
// A Store fetches a document at most once per tenant key, falls back to a
// minimal default document when the backend has nothing usable, and
// exposes setters that install a new document instead of mutating the
// current one.
package tenant

import (
	"context"
	"errors"
	"sync"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// State is the fetch state of a Store.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	}
	return "unknown"
}

// Fetcher loads a tenant document. A nil document with a nil error means
// the backend returned an empty body.
type Fetcher interface {
	FetchTenant(ctx context.Context, websiteName string) (*model.TenantDocument, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, websiteName string) (*model.TenantDocument, error)

// FetchTenant implements Fetcher.
func (f FetcherFunc) FetchTenant(ctx context.Context, websiteName string) (*model.TenantDocument, error) {
	return f(ctx, websiteName)
}

// Store holds the cached document of the tenant being edited.
type Store struct {
	fetcher Fetcher
	logger  *log.Logger

	mu      sync.Mutex
	state   State
	key     string
	doc     *model.TenantDocument
	errMsg  string
	fetches int
}

// NewStore returns an idle store.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		logger:  log.ForService("tenant"),
	}
}

// FetchTenantData loads the document of key. It returns immediately when a
// fetch is already in flight or when key is already loaded. Fetch errors
// move the store to Error and are also returned; empty or malformed
// documents are replaced with the default document.
func (s *Store) FetchTenantData(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.state == Loading || (s.state == Loaded && s.key == key) {
		s.mu.Unlock()
		return nil
	}
	s.state = Loading
	s.errMsg = ""
	s.fetches++
	s.mu.Unlock()

	s.logger.Debugf("fetching tenant %s", key)
	doc, err := s.fetcher.FetchTenant(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil && doc != nil:
		s.doc = doc
	case err == nil || errors.Is(err, model.ErrMalformedDocument):
		if err != nil {
			s.logger.Warnf("tenant %s: %v, using default document", key, err)
		} else {
			s.logger.Infof("tenant %s has no document, using default document", key)
		}
		s.doc = model.DefaultDocument(key)
	default:
		s.state = Error
		s.errMsg = err.Error()
		s.logger.Errorf("fetching tenant %s: %v", key, err)
		return err
	}
	s.state = Loaded
	s.key = key
	return nil
}

// Invalidate lets the next fetch of the current key reach the backend.
// The cached document stays readable until then.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Loaded || s.state == Error {
		s.state = Idle
	}
}

// Document returns the cached document, or nil before the first load.
// Callers must treat it as read-only.
func (s *Store) Document() *model.TenantDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// State returns the fetch state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the message of the last failed fetch.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// LastKey returns the key of the last successful fetch.
func (s *Store) LastKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Fetches returns how many fetches reached the fetcher.
func (s *Store) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}
