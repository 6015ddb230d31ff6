package reports

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"readiness-backend/internal/shared/storage/object/local"
	"readiness-backend/internal/shared/telemetry"
	"readiness-backend/internal/shared/util"
)

const fixedID = "5f0c6a52-3f0e-4d55-9a31-1c9f3e0b7a10"

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return &Service{
		Store: local.New(dir),
		Repo:  NewMemoryRepo(),
		Now:   func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
	}, dir
}

func TestPersistWritesSubjectScopedKey(t *testing.T) {
	svc, dir := newTestService(t)
	total := 86.0

	rep, err := svc.Persist(context.Background(), Artifact{
		ID:         fixedID,
		SubjectID:  "crew-0042",
		Body:       "Readiness Report for crew-0042\n",
		TotalScore: &total,
		Tier:       "good",
		AllClear:   true,
	})
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}

	wantKey := "reports/" + util.HashSubjectKey("crew-0042") + "/20260314_092653_" + fixedID + ".txt"
	if rep.StorageKey != wantKey {
		t.Fatalf("storage key = %q, want %q", rep.StorageKey, wantKey)
	}
	if rep.StorageProvider != "local" || rep.SizeBytes != int64(len("Readiness Report for crew-0042\n")) {
		t.Fatalf("unexpected metadata %+v", rep)
	}
	raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(wantKey)))
	if err != nil {
		t.Fatalf("read stored report: %v", err)
	}
	if string(raw) != rep.Body {
		t.Fatalf("stored body mismatch: %q", raw)
	}

	got, err := svc.Get(context.Background(), fixedID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalScore == nil || *got.TotalScore != 86 || got.Tier != "good" {
		t.Fatalf("unexpected stored report %+v", got)
	}

	rc, err := svc.Open(context.Background(), fixedID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != rep.Body {
		t.Fatalf("opened body mismatch: %q", body)
	}
}

func TestPersistGeneratesIDAndUsesAnonymousSubject(t *testing.T) {
	svc, _ := newTestService(t)

	rep, err := svc.Persist(context.Background(), Artifact{Body: "report"})
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if rep.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !strings.HasPrefix(rep.StorageKey, "reports/"+util.HashSubjectKey(util.AnonymousSubject)+"/") {
		t.Fatalf("expected anonymous subject key, got %q", rep.StorageKey)
	}
}

type failingRepo struct{ err error }

func (r failingRepo) Create(ctx context.Context, rep Report) error { return r.err }

func (r failingRepo) GetByID(ctx context.Context, id string) (Report, error) {
	return Report{}, ErrNotFound
}

func TestPersistLogsOrphanedObjectWhenIndexFails(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	svc, dir := newTestService(t)
	svc.Repo = failingRepo{err: errors.New("connection reset")}

	_, err := svc.Persist(context.Background(), Artifact{ID: fixedID, SubjectID: "crew-0042", Body: "report\n"})
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected repo error, got %v", err)
	}

	key := "reports/" + util.HashSubjectKey("crew-0042") + "/20260314_092653_" + fixedID + ".txt"
	if _, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); statErr != nil {
		t.Fatalf("expected stored object to remain: %v", statErr)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"msg":"report.orphaned"`) || !strings.Contains(logs, key) {
		t.Fatalf("expected orphan log with storage key, got %s", logs)
	}
}

func TestPersistRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		a    Artifact
	}{
		{name: "empty body", a: Artifact{Body: "  "}},
		{name: "malformed id", a: Artifact{ID: "not-a-uuid", Body: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Persist(context.Background(), tt.a); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	var unconfigured Service
	if _, err := unconfigured.Persist(context.Background(), Artifact{Body: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unconfigured sink to fail, got %v", err)
	}
}

func TestGetErrors(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Get(context.Background(), fixedID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
