package docstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/Malowking/docchat/core/errors"
	"github.com/Malowking/docchat/core/file_store"
)

type stubExtractor struct {
	mu       sync.Mutex
	contents map[string]string
	failures map[string]error
}

func newStubExtractor() *stubExtractor {
	return &stubExtractor{
		contents: make(map[string]string),
		failures: make(map[string]error),
	}
}

func (s *stubExtractor) set(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[path] = content
	delete(s.failures, path)
}

func (s *stubExtractor) fail(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = err
}

func (s *stubExtractor) File(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failures[path]; ok {
		return "", err
	}
	if content, ok := s.contents[path]; ok {
		return content, nil
	}
	return "", fmt.Errorf("no stub content for %s", path)
}

func newTestStore(t *testing.T, ext Extractor) (*Store, *file_store.Store) {
	t.Helper()
	files := file_store.New(t.TempDir())
	store := New(files, ext, Config{Workers: 1})
	t.Cleanup(store.Shutdown)
	return store, files
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func saveDoc(t *testing.T, files *file_store.Store, project, name, raw string) string {
	t.Helper()
	path, err := files.Save(context.Background(), project, name, strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStartProcessesExistingDocuments(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	ext.set(saveDoc(t, files, "", "a.txt", "raw"), "extracted a")
	ext.set(saveDoc(t, files, "research", "b.txt", "raw"), "extracted b")

	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	waitFor(t, func() bool {
		a, _ := store.Get("a.txt")
		b, _ := store.Get("research/b.txt")
		return a.Status == StatusCompleted && b.Status == StatusCompleted
	})

	a, _ := store.Get("a.txt")
	if a.Content != "extracted a" || a.Progress != 100 {
		t.Errorf("a.txt = %+v", a)
	}
	snapshot := store.Snapshot()
	if snapshot["a.txt"] != "extracted a" || snapshot["research/b.txt"] != "extracted b" {
		t.Errorf("Snapshot() = %v", snapshot)
	}
}

func TestExtractionFailureMarksError(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	path := saveDoc(t, files, "", "bad.txt", "raw")
	ext.fail(path, fmt.Errorf("parser exploded"))

	if err := store.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		doc, _ := store.Get("bad.txt")
		return doc.Status == StatusError
	})

	doc, _ := store.Get("bad.txt")
	if doc.Progress != 0 {
		t.Errorf("error document progress = %d, want 0", doc.Progress)
	}
	if !strings.Contains(doc.Error, "parser exploded") {
		t.Errorf("error message = %q", doc.Error)
	}
}

func TestRetryReschedulesAfterError(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	path := saveDoc(t, files, "", "flaky.txt", "raw")
	ext.fail(path, fmt.Errorf("temporary failure"))

	if err := store.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		doc, _ := store.Get("flaky.txt")
		return doc.Status == StatusError
	})

	ext.set(path, "recovered content")
	if err := store.Retry("flaky.txt"); err != nil {
		t.Fatalf("Retry() error: %v", err)
	}

	waitFor(t, func() bool {
		doc, _ := store.Get("flaky.txt")
		return doc.Status == StatusCompleted
	})
	doc, _ := store.Get("flaky.txt")
	if doc.Content != "recovered content" || doc.Error != "" {
		t.Errorf("retried document = %+v", doc)
	}
}

func TestRetryUnknownDocument(t *testing.T) {
	ext := newStubExtractor()
	store, _ := newTestStore(t, ext)

	err := store.Retry("ghost.txt")
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrDocumentNotFound {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestSyncAddsAndEvicts(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)
	ctx := context.Background()

	ext.set(saveDoc(t, files, "", "keep.txt", "raw"), "kept")
	ext.set(saveDoc(t, files, "", "drop.txt", "raw"), "dropped")
	saveDoc(t, files, "", "image.png", "binary")

	added, removed, err := store.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(added) != 2 || len(removed) != 0 {
		t.Fatalf("Sync() added %v removed %v", added, removed)
	}
	if _, ok := store.Get("image.png"); ok {
		t.Error("unsupported file should not be tracked")
	}

	if err := files.Delete(ctx, "", "drop.txt"); err != nil {
		t.Fatal(err)
	}
	added, removed, err = store.Sync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 0 || len(removed) != 1 || removed[0] != "drop.txt" {
		t.Errorf("Sync() after delete: added %v removed %v", added, removed)
	}
	if _, ok := store.Get("drop.txt"); ok {
		t.Error("evicted document should be gone")
	}
	if _, ok := store.Get("keep.txt"); !ok {
		t.Error("surviving document should remain tracked")
	}
}

func TestSyncKeepsTrackedDocuments(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)
	ctx := context.Background()

	path := saveDoc(t, files, "", "a.txt", "raw")
	key := store.Track("", "a.txt", path)

	added, _, err := store.Sync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range added {
		if k == key {
			t.Error("already tracked document must not be re-added by sync")
		}
	}
}

func TestEvictProject(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	store.Track("", "global.txt", files.DocPath("", "global.txt"))
	store.Track("alpha", "one.txt", files.DocPath("alpha", "one.txt"))
	store.Track("alpha", "two.txt", files.DocPath("alpha", "two.txt"))

	if count := store.EvictProject("alpha"); count != 2 {
		t.Errorf("EvictProject() = %d, want 2", count)
	}
	if _, ok := store.Get("global.txt"); !ok {
		t.Error("global document must survive project eviction")
	}
	if _, ok := store.Get("alpha/one.txt"); ok {
		t.Error("project document should be evicted")
	}
}

func TestRekeyMovesDocument(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	store.Track("", "moved.txt", files.DocPath("", "moved.txt"))
	store.Rekey("moved.txt", "research")

	if _, ok := store.Get("moved.txt"); ok {
		t.Error("old key should be gone after rekey")
	}
	doc, ok := store.Get("research/moved.txt")
	if !ok {
		t.Fatal("document missing under new key")
	}
	if doc.Project != "research" || doc.Path != files.DocPath("research", "moved.txt") {
		t.Errorf("rekeyed document = %+v", doc)
	}
}

func TestProjectDocumentsScoping(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	store.Track("", "g.txt", files.DocPath("", "g.txt"))
	store.Track("alpha", "a.txt", files.DocPath("alpha", "a.txt"))

	global := store.ProjectDocuments("")
	if len(global) != 1 || global[0].Key != "g.txt" {
		t.Errorf("global documents = %+v", global)
	}
	alpha := store.ProjectDocuments("alpha")
	if len(alpha) != 1 || alpha[0].Key != "alpha/a.txt" {
		t.Errorf("alpha documents = %+v", alpha)
	}
}

func TestReprocessUpdatesContent(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)
	ctx := context.Background()

	path := saveDoc(t, files, "", "doc.txt", "raw")
	ext.set(path, "first pass")
	if err := store.Start(ctx); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		doc, _ := store.Get("doc.txt")
		return doc.Status == StatusCompleted
	})

	ext.set(path, "second pass")
	doc, err := store.Reprocess(ctx, "doc.txt")
	if err != nil {
		t.Fatalf("Reprocess() error: %v", err)
	}
	if doc.Content != "second pass" || doc.Status != StatusCompleted {
		t.Errorf("reprocessed document = %+v", doc)
	}
}

func TestReprocessFailureReturnsError(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)
	ctx := context.Background()

	path := saveDoc(t, files, "", "doc.txt", "raw")
	store.Track("", "doc.txt", path)
	ext.fail(path, fmt.Errorf("broken"))

	_, err := store.Reprocess(ctx, "doc.txt")
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrDocumentParseFailed {
		t.Errorf("expected ErrDocumentParseFailed, got %v", err)
	}
	doc, _ := store.Get("doc.txt")
	if doc.Status != StatusError {
		t.Errorf("document status = %s, want error", doc.Status)
	}
}

func TestListSortedByKey(t *testing.T) {
	ext := newStubExtractor()
	store, files := newTestStore(t, ext)

	store.Track("", "zeta.txt", files.DocPath("", "zeta.txt"))
	store.Track("", "alpha.txt", files.DocPath("", "alpha.txt"))
	store.Track("beta", "doc.txt", files.DocPath("beta", "doc.txt"))

	docs := store.List()
	var keys []string
	for _, d := range docs {
		keys = append(keys, d.Key)
	}
	want := []string{"alpha.txt", "beta/doc.txt", "zeta.txt"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("List() keys = %v, want %v", keys, want)
		}
	}
}
