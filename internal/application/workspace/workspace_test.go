package workspace

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
	"github.com/resumeforge/resumeforge/internal/domain/repository"
)

type fakeGateway struct {
	mu         sync.Mutex
	stored     []*entity.ResumeDocument
	saved      []*entity.ResumeDocument
	fetchErr   error
	saveErr    error
	saveDelay  time.Duration
	saveHook   func()                      // runs at the start of each Save
	fetchHook  func()                      // runs at the start of each FetchAll
	fetchQueue [][]*entity.ResumeDocument // per-call results; falls back to stored
}

func (g *fakeGateway) FetchAll(ctx context.Context, ownerID string) ([]*entity.ResumeDocument, error) {
	if g.fetchHook != nil {
		g.fetchHook()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	src := g.stored
	if len(g.fetchQueue) > 0 {
		src = g.fetchQueue[0]
		g.fetchQueue = g.fetchQueue[1:]
	}
	out := make([]*entity.ResumeDocument, len(src))
	for i, d := range src {
		out[i] = d.Clone()
	}
	return out, nil
}

func (g *fakeGateway) Save(ctx context.Context, ownerID string, doc *entity.ResumeDocument) (*entity.ResumeDocument, error) {
	if g.saveHook != nil {
		g.saveHook()
	}
	if g.saveDelay > 0 {
		time.Sleep(g.saveDelay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return nil, g.saveErr
	}
	if doc.OwnerID != ownerID {
		return nil, repository.ErrOwnerMismatch
	}
	g.saved = append(g.saved, doc.Clone())
	return doc.Clone(), nil
}

func (g *fakeGateway) saveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.saved)
}

func (g *fakeGateway) lastSaved() *entity.ResumeDocument {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.saved) == 0 {
		return nil
	}
	return g.saved[len(g.saved)-1]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestCreateDocumentRequiresIdentity(t *testing.T) {
	w := New("", &fakeGateway{}, nil, time.Second)
	if _, err := w.CreateDocument("stem-modern"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestCreateDocumentSelectsNewDocument(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Second)
	id, err := w.CreateDocument("stem-modern")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sel := w.Selected()
	if sel == nil {
		t.Fatal("expected new document to be selected")
	}
	if sel.ID != id {
		t.Fatalf("selected id = %q, want %q", sel.ID, id)
	}
	if sel.OwnerID != "owner-1" {
		t.Fatalf("owner = %q, want owner-1", sel.OwnerID)
	}
	if sel.TemplateID != "stem-modern" {
		t.Fatalf("template = %q, want stem-modern", sel.TemplateID)
	}
	if sel.Education == nil || sel.Experience == nil || sel.Skills == nil || sel.Projects == nil {
		t.Fatal("section slices must be allocated, not nil")
	}
	if len(sel.Education)+len(sel.Experience)+len(sel.Skills)+len(sel.Projects) != 0 {
		t.Fatal("new document must have empty sections")
	}
}

func TestReplaceSectionStampsForward(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Freeze the clock so only the monotonic nudge can advance the stamp.
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return frozen }

	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "First"}})
	first := w.Selected().LastModified
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Second"}})
	second := w.Selected().LastModified

	if !second.After(first) {
		t.Fatalf("lastModified did not advance: %v then %v", first, second)
	}
	if got := w.Selected().Contact.FullName; got != "Second" {
		t.Fatalf("contact = %q, want last write to win", got)
	}
}

func TestReplaceSectionWithoutSelectionIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	w := New("owner-1", gw, nil, 10*time.Millisecond)
	w.ReplaceSection(entity.SkillsUpdate{Skills: []entity.Skill{{ID: "s1", Name: "Go"}}})
	time.Sleep(50 * time.Millisecond)
	if n := gw.saveCount(); n != 0 {
		t.Fatalf("expected no saves without a selection, got %d", n)
	}
}

func TestAutosaveCoalescesBursts(t *testing.T) {
	gw := &fakeGateway{}
	w := New("owner-1", gw, nil, 30*time.Millisecond)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}

	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Draft"}})
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Final"}})

	waitFor(t, 2*time.Second, func() bool { return gw.saveCount() > 0 })
	time.Sleep(100 * time.Millisecond)

	if n := gw.saveCount(); n != 1 {
		t.Fatalf("expected one coalesced save, got %d", n)
	}
	if got := gw.lastSaved().Contact.FullName; got != "Final" {
		t.Fatalf("saved contact = %q, want Final", got)
	}
}

func TestManualSaveSupersedesPendingAutosave(t *testing.T) {
	gw := &fakeGateway{}
	w := New("owner-1", gw, nil, 50*time.Millisecond)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}

	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Edited"}})
	if err := w.SaveDocument(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if n := gw.saveCount(); n != 1 {
		t.Fatalf("expected one save, got %d", n)
	}
}

func TestSaveWithoutSelection(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Second)
	if err := w.SaveDocument(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestSaveFailureKeepsLocalState(t *testing.T) {
	gw := &fakeGateway{saveErr: errors.New("gateway down")}
	w := New("owner-1", gw, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Keep Me"}})

	if err := w.SaveDocument(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if got := w.Selected().Contact.FullName; got != "Keep Me" {
		t.Fatalf("local state lost after failed save: %q", got)
	}
}

func TestLoadEmptyCollection(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Second)
	if err := w.LoadDocuments(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := len(w.Documents()); n != 0 {
		t.Fatalf("expected empty collection, got %d docs", n)
	}
	if w.Selected() != nil {
		t.Fatal("expected no selection")
	}
}

func TestLoadReplacesCollectionAndClearsStaleSelection(t *testing.T) {
	stored := entity.NewResumeDocument("owner-1", "stem-modern")
	gw := &fakeGateway{stored: []*entity.ResumeDocument{stored}}
	w := New("owner-1", gw, nil, time.Hour)

	// A locally created document not known to the gateway.
	if _, err := w.CreateDocument("business-professional"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := w.LoadDocuments(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	docs := w.Documents()
	if len(docs) != 1 || docs[0].ID != stored.ID {
		t.Fatalf("load did not replace collection: %+v", docs)
	}
	if w.Selected() != nil {
		t.Fatal("selection should clear when the selected id is not in the loaded set")
	}
}

func TestLoadWithoutIdentityClearsState(t *testing.T) {
	gw := &fakeGateway{stored: []*entity.ResumeDocument{entity.NewResumeDocument("x", "stem-modern")}}
	w := New("", gw, nil, time.Second)
	if err := w.LoadDocuments(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := len(w.Documents()); n != 0 {
		t.Fatalf("expected cleared collection, got %d", n)
	}
}

func TestLoadErrorPropagates(t *testing.T) {
	gw := &fakeGateway{fetchErr: errors.New("boom")}
	w := New("owner-1", gw, nil, time.Second)
	if err := w.LoadDocuments(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
}

func TestLoadWaitsForInFlightSave(t *testing.T) {
	gw := &fakeGateway{saveDelay: 100 * time.Millisecond}
	entered := make(chan struct{})
	gw.saveHook = func() { close(entered) }

	w := New("owner-1", gw, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}

	saveErr := make(chan error, 1)
	go func() { saveErr <- w.SaveDocument(context.Background()) }()
	<-entered

	// The save is inside the gateway now; the load must block until it
	// settles rather than fetch a state the save has not reached yet.
	if err := w.LoadDocuments(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := gw.saveCount(); n != 1 {
		t.Fatal("load returned before the in-flight save settled")
	}
	if err := <-saveErr; err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestOverlappingLoadsNewestWins(t *testing.T) {
	older := entity.NewResumeDocument("owner-1", "stem-modern")
	newer := entity.NewResumeDocument("owner-1", "business-professional")
	gw := &fakeGateway{fetchQueue: [][]*entity.ResumeDocument{{older}, {newer}}}

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	gw.fetchHook = func() {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-release
		}
	}

	w := New("owner-1", gw, nil, time.Hour)
	errc := make(chan error, 2)
	go func() { errc <- w.LoadDocuments(context.Background()) }()
	<-entered
	go func() { errc <- w.LoadDocuments(context.Background()) }()

	// Hold the first fetch open until the second load has registered, so the
	// first result arrives stale.
	waitFor(t, time.Second, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.loadGen == 2
	})
	close(release)

	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	docs := w.Documents()
	if len(docs) != 1 || docs[0].ID != newer.ID {
		t.Fatalf("superseded load result installed: %+v", docs)
	}
}

func TestSaveForeignDocumentRejected(t *testing.T) {
	foreign := entity.NewResumeDocument("owner-2", "stem-modern")
	gw := &fakeGateway{stored: []*entity.ResumeDocument{foreign}}
	w := New("owner-1", gw, nil, time.Hour)

	if err := w.LoadDocuments(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	w.SelectDocument(foreign.ID)

	if err := w.SaveDocument(context.Background()); !errors.Is(err, repository.ErrOwnerMismatch) {
		t.Fatalf("expected ErrOwnerMismatch, got %v", err)
	}
	if n := gw.saveCount(); n != 0 {
		t.Fatalf("rejected save must not be recorded, got %d", n)
	}
}

func TestEditWithoutSelection(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Hour)
	err := w.Edit(func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		return entity.SkillsUpdate{}, nil
	})
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestEditErrorLeavesDocumentUntouched(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Keep"}})

	err := w.Edit(func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		doc.Contact.FullName = "Scratch" // fn only sees a copy
		return nil, errors.New("rejected")
	})
	if err == nil {
		t.Fatal("expected the transform error to propagate")
	}
	if got := w.Selected().Contact.FullName; got != "Keep" {
		t.Fatalf("failed edit mutated the document: %q", got)
	}
}

func TestConcurrentEditsAllApply(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = w.Edit(func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
				skills := append(doc.Skills, entity.Skill{ID: strconv.Itoa(n), Name: "Go", Level: entity.SkillIntermediate})
				return entity.SkillsUpdate{Skills: skills}, nil
			})
		}(i)
	}
	wg.Wait()

	if n := len(w.Selected().Skills); n != 8 {
		t.Fatalf("read-transform-replace lost edits: %d skills, want 8", n)
	}
}

func TestSelectUnknownClearsSelection(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Second)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.SelectDocument("no-such-id")
	if w.Selected() != nil {
		t.Fatal("unknown id must clear the selection")
	}
}

func TestSelectSwitchesBetweenDocuments(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Second)
	first, _ := w.CreateDocument("stem-modern")
	second, _ := w.CreateDocument("business-executive")

	if got := w.Selected().ID; got != second {
		t.Fatalf("create should select the new document, got %q", got)
	}
	w.SelectDocument(first)
	if got := w.Selected().ID; got != first {
		t.Fatalf("selected = %q, want %q", got, first)
	}
}

func TestSelectedReturnsCopy(t *testing.T) {
	w := New("owner-1", &fakeGateway{}, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	sel := w.Selected()
	sel.Contact.FullName = "Mutated Outside"
	if got := w.Selected().Contact.FullName; got == "Mutated Outside" {
		t.Fatal("Selected must return a copy, not the live document")
	}
}

func TestCloseCancelsPendingAutosave(t *testing.T) {
	gw := &fakeGateway{}
	w := New("owner-1", gw, nil, 30*time.Millisecond)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Discard"}})
	w.Close()

	time.Sleep(100 * time.Millisecond)
	if n := gw.saveCount(); n != 0 {
		t.Fatalf("expected no saves after close, got %d", n)
	}
	if _, err := w.CreateDocument("stem-modern"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestFlushPersistsPendingEdits(t *testing.T) {
	gw := &fakeGateway{}
	w := New("owner-1", gw, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Pending"}})

	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n := gw.saveCount(); n != 1 {
		t.Fatalf("expected flush to save once, got %d", n)
	}
	if got := gw.lastSaved().Contact.FullName; got != "Pending" {
		t.Fatalf("flushed contact = %q", got)
	}
}

func TestFlushWithoutPendingIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	w := New("owner-1", gw, nil, time.Hour)
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n := gw.saveCount(); n != 0 {
		t.Fatalf("expected no save without pending edits, got %d", n)
	}
}

func TestManagerReusesWorkspacePerIdentity(t *testing.T) {
	m := NewManager(&fakeGateway{}, nil, time.Second)
	a := m.Workspace("owner-1")
	b := m.Workspace("owner-1")
	c := m.Workspace("owner-2")
	if a != b {
		t.Fatal("same identity must get the same workspace")
	}
	if a == c {
		t.Fatal("different identities must get different workspaces")
	}
}

func TestManagerReleaseFlushesAndCloses(t *testing.T) {
	gw := &fakeGateway{}
	m := NewManager(gw, nil, time.Hour)
	w := m.Workspace("owner-1")
	if _, err := w.CreateDocument("stem-modern"); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.ReplaceSection(entity.ContactUpdate{Contact: entity.Contact{FullName: "Last Edit"}})

	m.Release(context.Background(), "owner-1")

	if n := gw.saveCount(); n != 1 {
		t.Fatalf("expected release to flush once, got %d", n)
	}
	if _, err := w.CreateDocument("stem-modern"); !errors.Is(err, ErrClosed) {
		t.Fatalf("workspace should be closed after release, got %v", err)
	}
	if m.Workspace("owner-1") == w {
		t.Fatal("released workspace must not be handed out again")
	}
}
