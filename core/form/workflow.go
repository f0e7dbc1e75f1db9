package form

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

var (
	ErrInFlight     = errors.New("a submission is already in progress")
	ErrNotConfirmed = errors.New("deletion must be confirmed")
)

const (
	ModeCreate Mode = iota
	ModeEdit
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const genericFailureText = "something went wrong, please try again"

type Mode int

// RefetchError means the submission went through but the collection could not be reloaded.
// It must not be reported as a failed submission.
type RefetchError struct {
	Err error
}

func (err *RefetchError) Error() string {
	return "refetching collection: " + err.Err.Error()
}

func (err *RefetchError) Unwrap() error { return err.Err }

// Flash is a transient banner; it disappears once ExpiresAt has passed.
type Flash struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (f Flash) Active(now time.Time) bool {
	return f.Message != "" && now.Before(f.ExpiresAt)
}

// Workflow holds the draft of a create/edit modal.
type Workflow[T any] struct {
	mu       sync.Mutex
	mode     Mode
	defaults T
	draft    T
	open     bool
	inFlight bool
	flash    Flash
	ttl      time.Duration

	// SuccessText is shown after a successful submission.
	SuccessText string
	// Refetch reloads the owning collection after a successful submission.
	Refetch func(ctx context.Context) error
	NowFunc func() time.Time
}

func NewCreate[T any](defaults T, ttl time.Duration) *Workflow[T] {
	return &Workflow[T]{mode: ModeCreate, defaults: defaults, draft: defaults, open: true, ttl: ttl, NowFunc: time.Now}
}

// NewEdit seeds the draft from the selected entity; a successful edit resets the draft to it.
func NewEdit[T any](entity T, ttl time.Duration) *Workflow[T] {
	return &Workflow[T]{mode: ModeEdit, defaults: entity, draft: entity, open: true, ttl: ttl, NowFunc: time.Now}
}

func (w *Workflow[T]) Mode() Mode { return w.mode }

func (w *Workflow[T]) Draft() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

func (w *Workflow[T]) SetDraft(draft T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = draft
}

func (w *Workflow[T]) Open() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *Workflow[T]) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Flash returns the current banner if it has not expired yet.
func (w *Workflow[T]) Flash() (Flash, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.flash.Active(w.NowFunc()) {
		return w.flash, true
	}
	return Flash{}, false
}

// Submit sends the draft through fn. Only one submission may be outstanding.
func (w *Workflow[T]) Submit(ctx context.Context, fn func(context.Context, T) error) error {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return ErrInFlight
	}
	w.inFlight = true
	draft := w.draft
	w.mu.Unlock()

	err := fn(ctx, draft)

	w.mu.Lock()
	w.inFlight = false
	if err != nil {
		w.flash = w.newFlash(FlashError, core.ErrorMessage(err, genericFailureText))
		w.mu.Unlock()
		return err
	}
	w.open = false
	w.draft = w.defaults
	w.flash = w.newFlash(FlashSuccess, w.SuccessText)
	refetch := w.Refetch
	w.mu.Unlock()

	if refetch != nil {
		if err := refetch(ctx); err != nil {
			return &RefetchError{Err: err}
		}
	}
	return nil
}

func (w *Workflow[T]) newFlash(kind, msg string) Flash {
	return Flash{Kind: kind, Message: msg, ExpiresAt: w.NowFunc().Add(w.ttl)}
}

// NewFlash builds a standalone banner, e.g. after a confirmed deletion.
func NewFlash(kind, msg string, ttl time.Duration) Flash {
	return Flash{Kind: kind, Message: msg, ExpiresAt: time.Now().Add(ttl)}
}

// Confirm must precede every deletion request.
func Confirm(confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return nil
}
