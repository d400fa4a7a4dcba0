package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

var (
	ErrNotAuthenticated = errors.New("no active identity")
	ErrNoSelection      = errors.New("no document selected")
	ErrClosed           = errors.New("workspace closed")
)

// DefaultDebounce is the quiet period after the last section replacement
// before the workspace persists the document.
const DefaultDebounce = 2 * time.Second

const saveTimeout = 10 * time.Second

// Gateway is what the workspace needs from persistence. The application
// service satisfies it in production; tests use a fake.
type Gateway interface {
	FetchAll(ctx context.Context, ownerID string) ([]*entity.ResumeDocument, error)
	Save(ctx context.Context, ownerID string, doc *entity.ResumeDocument) (*entity.ResumeDocument, error)
}

// Workspace owns the authoritative in-memory documents for one identity.
// All writes go through it: section replacements mutate the selected
// document, stamp LastModified, and re-arm a single debounced persist task.
// Loads fully replace the in-memory collection; they never merge.
type Workspace struct {
	ownerID  string
	gateway  Gateway
	logger   *logrus.Logger
	debounce time.Duration

	mu       sync.Mutex
	docs     []*entity.ResumeDocument
	selected string
	timer    *time.Timer
	loadGen  uint64
	closed   bool

	// gate serializes gateway traffic so a load triggered while a save is
	// in flight waits for the save to settle before fetching.
	gate sync.Mutex

	now func() time.Time
}

func New(ownerID string, gw Gateway, logger *logrus.Logger, debounce time.Duration) *Workspace {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Workspace{
		ownerID:  ownerID,
		gateway:  gw,
		logger:   logger,
		debounce: debounce,
		now:      time.Now,
	}
}

// OwnerID returns the identity this workspace is scoped to.
func (w *Workspace) OwnerID() string { return w.ownerID }

// CreateDocument constructs an empty document owned by the workspace
// identity and makes it the selected document.
func (w *Workspace) CreateDocument(templateID string) (string, error) {
	if w.ownerID == "" {
		return "", ErrNotAuthenticated
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return "", ErrClosed
	}
	doc := entity.NewResumeDocument(w.ownerID, templateID)
	doc.LastModified = w.now().UTC()
	w.docs = append(w.docs, doc)
	w.selected = doc.ID
	return doc.ID, nil
}

// LoadDocuments replaces the in-memory collection with the owner's persisted
// documents. An identity with zero stored documents yields an empty
// collection and no error. When loads race, the most recently started load
// wins; results of superseded loads are discarded.
func (w *Workspace) LoadDocuments(ctx context.Context) error {
	if w.ownerID == "" {
		w.mu.Lock()
		w.docs = nil
		w.selected = ""
		w.mu.Unlock()
		return nil
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.loadGen++
	gen := w.loadGen
	w.mu.Unlock()

	// Wait for any in-flight save before fetching, so the fetch observes
	// the settled state.
	w.gate.Lock()
	docs, err := w.gateway.FetchAll(ctx, w.ownerID)
	w.gate.Unlock()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.loadGen || w.closed {
		// A newer load started while this one was in flight.
		return nil
	}
	w.docs = docs
	if w.findLocked(w.selected) == nil {
		w.selected = ""
	}
	return nil
}

// SelectDocument sets the selection to the document with the given id inside
// the in-memory collection. Unknown ids clear the selection; no fetch.
func (w *Workspace) SelectDocument(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.findLocked(id) != nil {
		w.selected = id
	} else {
		w.selected = ""
	}
}

// Selected returns a copy of the currently selected document, or nil.
func (w *Workspace) Selected() *entity.ResumeDocument {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findLocked(w.selected).Clone()
}

// Documents returns copies of the in-memory collection.
func (w *Workspace) Documents() []*entity.ResumeDocument {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*entity.ResumeDocument, len(w.docs))
	for i, d := range w.docs {
		out[i] = d.Clone()
	}
	return out
}

// ReplaceSection applies a whole-section replacement to the selected
// document, stamps LastModified, and re-arms the debounced persist. Without
// a selection it is a silent no-op; that is a defensive guard, not an error.
func (w *Workspace) ReplaceSection(update entity.SectionUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	doc := w.findLocked(w.selected)
	if doc == nil {
		return
	}
	w.applyLocked(doc, update)
}

// Edit runs a read-transform-replace cycle atomically: fn receives a copy of
// the selected document and returns the whole-section replacement to apply.
// Holding the lock across the transform keeps two concurrent editor requests
// from overwriting each other's result.
func (w *Workspace) Edit(fn func(doc *entity.ResumeDocument) (entity.SectionUpdate, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	doc := w.findLocked(w.selected)
	if doc == nil {
		return ErrNoSelection
	}
	update, err := fn(doc.Clone())
	if err != nil {
		return err
	}
	w.applyLocked(doc, update)
	return nil
}

func (w *Workspace) applyLocked(doc *entity.ResumeDocument, update entity.SectionUpdate) {
	update.Apply(doc)
	doc.LastModified = w.stamp(doc.LastModified)

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.autosave)
}

// SaveDocument persists the selected document immediately. A pending
// autosave is cancelled; the manual save supersedes it. On failure the
// in-memory state is left at its last-known-good value and the error is
// returned to the caller.
func (w *Workspace) SaveDocument(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	doc := w.findLocked(w.selected)
	if doc == nil {
		w.mu.Unlock()
		return ErrNoSelection
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	snapshot := doc.Clone()
	w.mu.Unlock()

	return w.persist(ctx, snapshot)
}

// Flush persists the selected document if an autosave is pending. Used on
// graceful teardown so the last burst of edits is not lost.
func (w *Workspace) Flush(ctx context.Context) error {
	w.mu.Lock()
	pending := w.timer != nil
	w.mu.Unlock()
	if !pending {
		return nil
	}
	return w.SaveDocument(ctx)
}

// Close cancels any pending autosave and detaches the workspace from future
// persistence results. Logout and navigation-away both land here.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Workspace) autosave() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	doc := w.findLocked(w.selected)
	if doc == nil {
		w.mu.Unlock()
		return
	}
	snapshot := doc.Clone()
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.persist(ctx, snapshot); err != nil && w.logger != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{
			"owner_id":    w.ownerID,
			"document_id": snapshot.ID,
		}).Warn("autosave failed")
	}
}

func (w *Workspace) persist(ctx context.Context, snapshot *entity.ResumeDocument) error {
	w.gate.Lock()
	confirmed, err := w.gateway.Save(ctx, w.ownerID, snapshot)
	w.gate.Unlock()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	doc := w.findLocked(snapshot.ID)
	// Reconcile only when the document was not edited after the snapshot was
	// taken; a newer edit re-armed the autosave and will persist on its own.
	if doc != nil && confirmed != nil && doc.LastModified.Equal(snapshot.LastModified) {
		doc.LastModified = confirmed.LastModified
	}
	return nil
}

// stamp returns the current wall-clock time, nudged forward when the clock
// has not advanced past the previous modification.
func (w *Workspace) stamp(prev time.Time) time.Time {
	ts := w.now().UTC()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

func (w *Workspace) findLocked(id string) *entity.ResumeDocument {
	if id == "" {
		return nil
	}
	for _, d := range w.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}
