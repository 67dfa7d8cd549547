package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"farc/internal/config"
	"farc/internal/fileinfo"
	"farc/internal/watcher"
)

func openTestStore(t *testing.T, cfg config.IndexConfig) *Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "index.db")
	}
	store, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestBuildAndQueryContent(t *testing.T) {
	root := seedTree(t, map[string]string{
		"notes.txt":   "remember the milk",
		"sub/plan.md": "ship the release",
		"other.txt":   "nothing relevant",
	})
	store := openTestStore(t, config.IndexConfig{})

	ctx := context.Background()
	n, err := store.Build(ctx, root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 indexed files, got %d", n)
	}

	results, err := store.QueryContent(ctx, "milk", "", 0)
	if err != nil {
		t.Fatalf("QueryContent failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "notes.txt" {
		t.Errorf("Expected notes.txt, got %+v", results)
	}

	// queries are case-insensitive
	results, err = store.QueryContent(ctx, "SHIP", "", 0)
	if err != nil {
		t.Fatalf("QueryContent failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "plan.md" {
		t.Errorf("Expected plan.md, got %+v", results)
	}
}

func TestQueryNameAndScope(t *testing.T) {
	root := seedTree(t, map[string]string{
		"a/report.txt": "x",
		"b/report.txt": "y",
	})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	results, err := store.QueryName(ctx, "report", "", 0)
	if err != nil {
		t.Fatalf("QueryName failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	results, err = store.QueryName(ctx, "report", filepath.Join(root, "a"), 0)
	if err != nil {
		t.Fatalf("QueryName failed: %v", err)
	}
	if len(results) != 1 || results[0].Path != filepath.Join(root, "a", "report.txt") {
		t.Errorf("Scope should restrict to a/, got %+v", results)
	}
}

func TestBuildFilters(t *testing.T) {
	root := seedTree(t, map[string]string{
		"keep.txt":    "indexed text",
		"skip.bin":    "wrong extension",
		".hidden.txt": "hidden",
	})
	if err := os.WriteFile(filepath.Join(root, "blob.txt"), []byte("bin\x00ary"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "big.txt"), []byte(strings.Repeat("a", 100)), 0644); err != nil {
		t.Fatal(err)
	}

	store := openTestStore(t, config.IndexConfig{
		Extensions:  []string{".txt"},
		MaxFileSize: 50,
	})
	ctx := context.Background()
	n, err := store.Build(ctx, root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Only keep.txt should be indexed, got %d entries", n)
	}

	results, err := store.QueryName(ctx, "keep", "", 0)
	if err != nil {
		t.Fatalf("QueryName failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected keep.txt in index, got %+v", results)
	}
}

func TestRebuildPrunesDeleted(t *testing.T) {
	root := seedTree(t, map[string]string{
		"stay.txt": "stays",
		"gone.txt": "goes away",
	})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "gone.txt")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	results, err := store.QueryName(ctx, "gone", "", 0)
	if err != nil {
		t.Fatalf("QueryName failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Deleted file should be pruned, got %+v", results)
	}
}

func TestRebuildPrunesUnderSpecialCharRoot(t *testing.T) {
	// underscore is a LIKE wildcard; pruning must match it literally
	root := filepath.Join(t.TempDir(), "my_project")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"stay.txt": "stays",
		"gone.txt": "goes away",
	} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "gone.txt")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if results, _ := store.QueryName(ctx, "gone", "", 0); len(results) != 0 {
		t.Errorf("deleted file under underscore root should be pruned, got %+v", results)
	}
	if results, _ := store.QueryName(ctx, "stay", "", 0); len(results) != 1 {
		t.Errorf("surviving file should stay indexed, got %+v", results)
	}
}

func TestRefresh(t *testing.T) {
	root := seedTree(t, map[string]string{"doc.txt": "old content"})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path := filepath.Join(root, "doc.txt")
	if err := os.WriteFile(path, []byte("new content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Refresh(ctx, path); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	results, err := store.QueryContent(ctx, "new content", "", 0)
	if err != nil {
		t.Fatalf("QueryContent failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Refreshed content should be queryable, got %+v", results)
	}
	if results, _ := store.QueryContent(ctx, "old content", "", 0); len(results) != 0 {
		t.Errorf("Stale content should be replaced, got %+v", results)
	}

	// refreshing a removed file drops the entry
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := store.Refresh(ctx, path); err != nil {
		t.Fatalf("Refresh after delete failed: %v", err)
	}
	if results, _ := store.QueryName(ctx, "doc", "", 0); len(results) != 0 {
		t.Errorf("Entry for deleted file should be removed, got %+v", results)
	}
}

func TestApplyChanges(t *testing.T) {
	root := seedTree(t, map[string]string{
		"old.txt":  "already indexed",
		"gone.txt": "to be deleted",
	})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	newPath := filepath.Join(root, "new.txt")
	if err := os.WriteFile(newPath, []byte("fresh content"), 0644); err != nil {
		t.Fatal(err)
	}
	gonePath := filepath.Join(root, "gone.txt")
	if err := os.Remove(gonePath); err != nil {
		t.Fatal(err)
	}

	changes := &watcher.Changes{
		Added:   []fileinfo.FileInfo{{Path: newPath, Name: "new.txt"}},
		Deleted: []fileinfo.FileInfo{{Path: gonePath, Name: "gone.txt"}},
	}
	if err := store.Apply(ctx, changes); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if results, _ := store.QueryContent(ctx, "fresh content", "", 0); len(results) != 1 {
		t.Errorf("added file should be indexed, got %+v", results)
	}
	if results, _ := store.QueryName(ctx, "gone", "", 0); len(results) != 0 {
		t.Errorf("deleted file should be dropped, got %+v", results)
	}
}

func TestQueryLimit(t *testing.T) {
	root := seedTree(t, map[string]string{
		"m1.txt": "needle", "m2.txt": "needle", "m3.txt": "needle",
	})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	results, err := store.QueryContent(ctx, "needle", "", 2)
	if err != nil {
		t.Fatalf("QueryContent failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected limit of 2, got %d", len(results))
	}
}

func TestLikeEscaping(t *testing.T) {
	root := seedTree(t, map[string]string{
		"pct.txt":   "100% done",
		"plain.txt": "100 done",
	})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	results, err := store.QueryContent(ctx, "100%", "", 0)
	if err != nil {
		t.Fatalf("QueryContent failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "pct.txt" {
		t.Errorf("Percent must match literally, got %+v", results)
	}
}

func TestStats(t *testing.T) {
	root := seedTree(t, map[string]string{
		"a.txt": "12345",
		"b.txt": "1234567890",
	})
	store := openTestStore(t, config.IndexConfig{})
	ctx := context.Background()
	if _, err := store.Build(ctx, root); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	files, bytes, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if files != 2 || bytes != 15 {
		t.Errorf("Expected 2 files / 15 bytes, got %d / %d", files, bytes)
	}
}
