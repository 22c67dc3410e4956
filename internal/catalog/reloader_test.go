package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// failingSource всегда возвращает ошибку.
type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Load(context.Context) (*Memory, error) {
	return nil, errors.New("connection refused")
}

// flowSlice реализует FlowLister.
type flowSlice []*domain.Flow

func (s flowSlice) List(context.Context) ([]*domain.Flow, error) { return s, nil }

func TestReloader_RejectsInvalidFlows(t *testing.T) {
	broken := ExampleFlow()
	broken.ID = "broken"
	delete(broken.Subflow("a1").Elements, "e0")

	live := NewLive(nil)
	r := NewReloader(live, StaticSource{Catalog: NewMemory(map[string]*domain.Flow{
		"a":      ExampleFlow(),
		"broken": broken,
	})}, nil)

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := live.LookupFlow("a"); !ok {
		t.Error("expected valid flow a")
	}
	if _, ok := live.LookupFlow("broken"); ok {
		t.Error("invalid flow must be registered without flow")
	}
	if n := len(live.Current().IDs()); n != 2 {
		t.Errorf("expected 2 IDs, got %d", n)
	}
}

func TestReloader_KeepsCatalogOnError(t *testing.T) {
	live := NewLive(Example())
	r := NewReloader(live, failingSource{}, nil)

	if err := r.Reload(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := live.LookupFlow("a"); !ok {
		t.Error("previous catalog must be kept")
	}
}

func TestRepoSource(t *testing.T) {
	live := NewLive(nil)
	r := NewReloader(live, RepoSource{Repo: flowSlice{ExampleFlow()}}, nil)

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := live.LookupFlow("a"); !ok {
		t.Error("expected flow a from repo")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	live := NewLive(nil)
	r := NewReloader(live, FileSource{Path: path}, nil)
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := live.LookupFlow("sq"); !ok {
		t.Error("expected flow sq from file")
	}

	missing := NewReloader(live, FileSource{Path: filepath.Join(t.TempDir(), "none.yaml")}, nil)
	if err := missing.Reload(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSource_BrokenFlowDoesNotBlockReload(t *testing.T) {
	data := catalogYAML + `  bad:
    subflows:
      s:
        elements:
          e: {type: chart}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	live := NewLive(Example())
	r := NewReloader(live, FileSource{Path: path}, nil)
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := live.LookupFlow("sq"); !ok {
		t.Error("expected flow sq from file")
	}
	if _, ok := live.LookupFlow("bad"); ok {
		t.Error("broken flow must be registered without flow")
	}
	if _, ok := live.LookupFlow("a"); ok {
		t.Error("expected catalog to be replaced")
	}
}

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{expr: "*/5 * * * *"},
		{expr: "@every 1m"},
		{expr: "0 3 * * 1-5"},
		{expr: "not a cron", wantErr: true},
		{expr: "* * * * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateCronExpr(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronExpr(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}
