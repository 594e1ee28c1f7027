package appeal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func testAppeal() Appeal {
	birth, _ := ParseDate("1990-05-17")
	detected, _ := ParseDateTime("2024-06-01T12:30:00Z")
	return Appeal{
		LastName:  "Иванов",
		FirstName: "Иван",
		BirthDate: birth,
		Phone:     "+79161234567",
		Email:     "ivan@example.com",
		Problem: &Problem{
			ProblemType:       "не работает телефон",
			DetectionDatetime: detected,
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	created, err := store.Create(ctx, testAppeal())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be set")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.ID != created.ID {
		t.Fatalf("id = %q, want %q", got.ID, created.ID)
	}
	if got.Appeal.LastName != "Иванов" || got.Appeal.FirstName != "Иван" {
		t.Fatalf("name not preserved: %+v", got.Appeal)
	}
	if got.Appeal.Problem == nil || got.Appeal.Problem.ProblemType != "не работает телефон" {
		t.Fatalf("problem not preserved: %+v", got.Appeal.Problem)
	}
	if !got.Appeal.Problem.DetectionDatetime.Equal(testAppeal().Problem.DetectionDatetime.Time) {
		t.Fatalf("detection_datetime not preserved")
	}
	if got.Appeal.BirthDate.Format("2006-01-02") != "1990-05-17" {
		t.Fatalf("birth_date not preserved: %v", got.Appeal.BirthDate)
	}
}

func TestFileStoreCyrillicStoredVerbatim(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	created, err := store.Create(context.Background(), testAppeal())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "appeal_"+created.ID+".json"))
	if err != nil {
		t.Fatalf("read record file: %v", err)
	}

	if !strings.Contains(string(data), "Иванов") {
		t.Fatalf("expected Cyrillic to be stored verbatim, got: %s", data)
	}
	if strings.Contains(string(data), `\u04`) {
		t.Fatalf("expected no unicode escaping of Cyrillic, got: %s", data)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = store.Get(context.Background(), "../escape")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for traversal id, got %v", err)
	}
}

func TestFileStoreConcurrentCreates(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	const n = 100

	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := store.Create(ctx, testAppeal())
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids[i] = rec.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, id := range ids {
		if id == "" {
			t.Fatalf("missing id after concurrent create")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}

		if _, err := store.Get(ctx, id); err != nil {
			t.Fatalf("Get(%q): %v", id, err)
		}
	}
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, testAppeal())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("id = %q, want %q", got.ID, created.ID)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
