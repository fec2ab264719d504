// Package reconciler runs the save of an editing session: it flushes
// pending buffers, builds the payload, submits it and mirrors the
// confirmed state back into the tenant cache.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/client"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/editor"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/tenant"
)

// GenericFailure is shown when a failed save carries no server message.
const GenericFailure = "Failed to save changes"

// SuccessMessage is shown after a confirmed save.
const SuccessMessage = "Changes saved"

var (
	// ErrNotAuthenticated is returned when the acting identity has no token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSaveInProgress is returned while another save is running.
	ErrSaveInProgress = errors.New("save already in progress")
)

// Submitter persists a save payload.
type Submitter interface {
	SavePages(ctx context.Context, token string, p model.SavePayload) error
}

// Notifier surfaces save outcomes to the user.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Hook runs before the payload is built. Static pages with their own edit
// buffers use hooks to push them into the editor.
type Hook func(ctx context.Context, ed *editor.Store) error

// Reconciler saves one editor store.
type Reconciler struct {
	editor    *editor.Store
	tenant    *tenant.Store
	identity  identity.Provider
	submitter Submitter
	notifier  Notifier
	logger    *log.Logger

	mu      sync.Mutex
	hooks   []Hook
	saving  bool
	lastErr string
}

// New returns a reconciler. tenant and notifier may be nil.
func New(ed *editor.Store, ts *tenant.Store, id identity.Provider, sub Submitter, n Notifier) *Reconciler {
	return &Reconciler{
		editor:    ed,
		tenant:    ts,
		identity:  id,
		submitter: sub,
		notifier:  n,
		logger:    log.ForService("reconciler"),
	}
}

// AddHook registers a pre-save hook. Hooks run in registration order.
func (r *Reconciler) AddHook(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// LastError returns the user-facing message of the last failed save, or
// "" after a success.
func (r *Reconciler) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Saving reports whether a save is in flight.
func (r *Reconciler) Saving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saving
}

// Save runs one save and returns the submitted payload. The editor state
// is never modified by a failed save, so a failed save can simply be
// retried.
func (r *Reconciler) Save(ctx context.Context) (model.SavePayload, error) {
	actor, err := r.identity.Current(ctx)
	if err != nil || !actor.Authenticated() {
		if err == nil {
			err = ErrNotAuthenticated
		} else {
			err = fmt.Errorf("%v: %w", err, ErrNotAuthenticated)
		}
		r.fail(err, GenericFailure)
		return model.SavePayload{}, err
	}

	r.mu.Lock()
	if r.saving {
		r.mu.Unlock()
		return model.SavePayload{}, ErrSaveInProgress
	}
	r.saving = true
	hooks := make([]Hook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.saving = false
		r.mu.Unlock()
	}()

	for i, h := range hooks {
		if err := h(ctx, r.editor); err != nil {
			err = fmt.Errorf("pre-save hook %d: %w", i, err)
			r.fail(err, GenericFailure)
			return model.SavePayload{}, err
		}
	}

	payload := r.editor.BuildSavePayload(actor)
	r.logger.Debugf("saving %s: %d pages, %d static pages, %d theme backups",
		payload.WebsiteName, len(payload.Pages), len(payload.StaticPages), len(payload.ThemesBackup))

	if err := r.submitter.SavePages(ctx, actor.Token, payload); err != nil {
		r.fail(err, userMessage(err))
		return payload, err
	}

	if r.tenant != nil {
		if _, err := r.tenant.ApplySaved(payload); err != nil {
			r.logger.Warnf("mirroring saved state: %v", err)
		}
	}

	r.mu.Lock()
	r.lastErr = ""
	r.mu.Unlock()
	r.logger.Infof("saved %s", payload.WebsiteName)
	if r.notifier != nil {
		r.notifier.Success(SuccessMessage)
	}
	return payload, nil
}

func (r *Reconciler) fail(err error, msg string) {
	r.mu.Lock()
	r.lastErr = msg
	r.mu.Unlock()
	r.logger.Errorf("save failed: %v", err)
	if r.notifier != nil {
		r.notifier.Failure(msg)
	}
}

// userMessage returns the server message of an API error verbatim, or the
// generic notice.
func userMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailure
}
