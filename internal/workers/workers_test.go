package workers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/models"
)

// mockWorker tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run() {
	m.runCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	NewWorkers(w1, w2, w3).Run()

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	// must not panic with no workers
	NewWorkers().Run()
}

// fakeLibrary records sealed documents; only SealDocument matters here.
type fakeLibrary struct {
	mu     sync.Mutex
	sealed map[string][]byte
	errOn  string
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{sealed: make(map[string][]byte)}
}

func (f *fakeLibrary) SealDocument(_ context.Context, name string, plaintext []byte, _ string) (models.Document, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == f.errOn {
		return models.Document{}, "", errors.New("seal rejected")
	}
	f.sealed[name] = append([]byte(nil), plaintext...)
	return models.Document{ID: name, Name: name}, "secret-" + name, nil
}

func (f *fakeLibrary) OpenDocument(context.Context, string, string) ([]byte, error) {
	return nil, nil
}

func (f *fakeLibrary) OpenDocumentWithRecovery(context.Context, string, string) ([]byte, error) {
	return nil, nil
}

func (f *fakeLibrary) RotateDocument(context.Context, string, string, string) error {
	return nil
}

func (f *fakeLibrary) RotateDocumentWithRecovery(context.Context, string, string, string) error {
	return nil
}

func (f *fakeLibrary) ReissueDocumentRecovery(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeLibrary) ListDocuments(context.Context) ([]models.Document, error) {
	return nil, nil
}

func (f *fakeLibrary) RemoveDocument(context.Context, string) error {
	return nil
}

func writeSourceFiles(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("doc-%d.txt", i))
		if err := os.WriteFile(path, []byte(fmt.Sprintf("body %d", i)), 0o600); err != nil {
			t.Fatalf("write source file: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

func TestSealPool_SealsAllJobs(t *testing.T) {
	lib := newFakeLibrary()
	pool := NewSealPool(context.Background(), lib, 3, logger.Nop())
	sources := writeSourceFiles(t, 5)

	pool.Run()
	go func() {
		for i, src := range sources {
			pool.Submit(SealJob{Name: fmt.Sprintf("doc-%d", i), Source: src, Password: "pw"})
		}
		pool.Close()
	}()

	got := 0
	for res := range pool.Results() {
		if res.Err != nil {
			t.Errorf("job %q: unexpected error: %v", res.Name, res.Err)
		}
		if res.RecoverySecret != "secret-"+res.Name {
			t.Errorf("job %q: wrong recovery secret %q", res.Name, res.RecoverySecret)
		}
		got++
	}
	if got != len(sources) {
		t.Fatalf("expected %d results, got %d", len(sources), got)
	}
	if len(lib.sealed) != len(sources) {
		t.Fatalf("expected %d sealed documents, got %d", len(sources), len(lib.sealed))
	}
}

func TestSealPool_ReportsPerJobErrors(t *testing.T) {
	lib := newFakeLibrary()
	lib.errOn = "bad"
	pool := NewSealPool(context.Background(), lib, 2, logger.Nop())
	sources := writeSourceFiles(t, 2)

	pool.Run()
	go func() {
		pool.Submit(SealJob{Name: "good", Source: sources[0], Password: "pw"})
		pool.Submit(SealJob{Name: "bad", Source: sources[1], Password: "pw"})
		pool.Close()
	}()

	failures := map[string]bool{}
	for res := range pool.Results() {
		failures[res.Name] = res.Err != nil
	}
	if failures["good"] {
		t.Error("expected job \"good\" to succeed")
	}
	if !failures["bad"] {
		t.Error("expected job \"bad\" to fail")
	}
}

func TestSealPool_MissingSourceFile(t *testing.T) {
	pool := NewSealPool(context.Background(), newFakeLibrary(), 1, logger.Nop())
	missing := filepath.Join(t.TempDir(), "absent.txt")

	pool.Run()
	go func() {
		pool.Submit(SealJob{Name: "ghost", Source: missing, Password: "pw"})
		pool.Close()
	}()

	res := <-pool.Results()
	if res.Err == nil {
		t.Fatal("expected error for missing source file")
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", res.Err)
	}
}

func TestSealPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := NewSealPool(ctx, newFakeLibrary(), 1, logger.Nop())
	sources := writeSourceFiles(t, 1)

	pool.Run()
	go func() {
		pool.Submit(SealJob{Name: "doc", Source: sources[0], Password: "pw"})
		pool.Close()
	}()

	res := <-pool.Results()
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.Err)
	}
}
