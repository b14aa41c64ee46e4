package reconcile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/themedeck/pkg/catalog"
	"gitlab.com/tinyland/lab/themedeck/pkg/registry"
	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

// memCatalog is a Catalog backed by maps, with an optional hook invoked on
// every Raw call.
type memCatalog struct {
	entries []catalog.Entry
	files   map[string]string
	rawHook func()
}

func (c *memCatalog) Index(ctx context.Context) ([]catalog.Entry, error) {
	return c.entries, nil
}

func (c *memCatalog) Raw(ctx context.Context, file string) (string, error) {
	if c.rawHook != nil {
		c.rawHook()
	}
	text, ok := c.files[file]
	if !ok {
		return "", errors.New("no such file")
	}
	return text, nil
}

func defText(t *testing.T, id, name, version string) string {
	t.Helper()
	text, err := theme.Export(theme.Theme{
		Meta:   theme.Meta{ID: id, Name: name, Version: version},
		Colors: map[string]string{"primaryColor": "#abcdef"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func loadedRegistry(t *testing.T, ms *store.MemStore) *registry.Registry {
	t.Helper()
	reg := registry.New(ms, nil)
	if err := reg.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return reg
}

var enabled = Options{AutoUpdate: true, Authorized: true}

func TestReconcileUploadsNewerVersion(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("x", defText(t, "x", "X", "1.0.0"))
	reg := loadedRegistry(t, ms)

	cat := &memCatalog{
		entries: []catalog.Entry{{ID: "x", Name: "X", Version: "1.1.0", File: "x.toml"}},
		files:   map[string]string{"x.toml": defText(t, "x", "X", "1.1.0")},
	}

	res, err := New(ms, nil).Reconcile(ctx, cat, reg, enabled)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(res.Updated) != 1 || res.Updated[0] != "x" {
		t.Fatalf("Updated = %v, want [x]", res.Updated)
	}
	if len(ms.Uploads) != 1 {
		t.Fatalf("got %d uploads, want exactly 1", len(ms.Uploads))
	}

	// The uploaded definition is tagged as a community theme.
	stored := ms.Texts()["x"]
	if !strings.Contains(stored, "isCommunityTheme = true") {
		t.Errorf("re-uploaded definition not tagged community:\n%s", stored)
	}
	if !strings.Contains(stored, "version = \"1.1.0\"") {
		t.Errorf("re-uploaded definition has wrong version:\n%s", stored)
	}
}

func TestReconcileSkipsEqualAndOlder(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("same", defText(t, "same", "Same", "1.2.0"))
	ms.Seed("older", defText(t, "older", "Older", "2.0.0"))
	reg := loadedRegistry(t, ms)

	cat := &memCatalog{
		entries: []catalog.Entry{
			{ID: "same", Version: "1.2.0", File: "same.toml"},
			{ID: "older", Version: "1.9.9", File: "older.toml"},
		},
		files: map[string]string{},
	}

	res, err := New(ms, nil).Reconcile(ctx, cat, reg, enabled)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(res.Updated) != 0 || len(ms.Uploads) != 0 {
		t.Errorf("Updated = %v, uploads = %v, want none", res.Updated, ms.Uploads)
	}
}

func TestReconcileNumericVersionComparison(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("x", defText(t, "x", "X", "1.2.0"))
	reg := loadedRegistry(t, ms)

	// "1.10.0" is newer than "1.2.0" numerically, older lexicographically.
	cat := &memCatalog{
		entries: []catalog.Entry{{ID: "x", Version: "1.10.0", File: "x.toml"}},
		files:   map[string]string{"x.toml": defText(t, "x", "X", "1.10.0")},
	}

	res, err := New(ms, nil).Reconcile(ctx, cat, reg, enabled)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Updated) != 1 {
		t.Errorf("Updated = %v, want [x]", res.Updated)
	}
}

func TestReconcileGating(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("x", defText(t, "x", "X", "1.0.0"))
	reg := loadedRegistry(t, ms)

	cat := &memCatalog{
		entries: []catalog.Entry{{ID: "x", Version: "9.0.0", File: "x.toml"}},
		files:   map[string]string{"x.toml": defText(t, "x", "X", "9.0.0")},
	}

	for _, opts := range []Options{
		{AutoUpdate: false, Authorized: true},
		{AutoUpdate: true, Authorized: false},
	} {
		res, err := New(ms, nil).Reconcile(ctx, cat, reg, opts)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Updated) != 0 || len(ms.Uploads) != 0 {
			t.Errorf("opts %+v triggered uploads", opts)
		}
	}
}

func TestReconcileFailuresAreIndependent(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("bad", defText(t, "bad", "Bad", "1.0.0"))
	ms.Seed("good", defText(t, "good", "Good", "1.0.0"))
	reg := loadedRegistry(t, ms)

	cat := &memCatalog{
		entries: []catalog.Entry{
			{ID: "bad", Version: "2.0.0", File: "bad.toml"},
			{ID: "good", Version: "2.0.0", File: "good.toml"},
		},
		files: map[string]string{
			"bad.toml":  "corrupted { definition",
			"good.toml": defText(t, "good", "Good", "2.0.0"),
		},
	}

	res, err := New(ms, nil).Reconcile(ctx, cat, reg, enabled)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Updated) != 1 || res.Updated[0] != "good" {
		t.Errorf("Updated = %v, want [good]", res.Updated)
	}
	if _, ok := res.Failed["bad"]; !ok {
		t.Errorf("Failed = %v, want entry for bad", res.Failed)
	}
}

func TestReconcileSkipsBuiltins(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	reg := loadedRegistry(t, ms)

	cat := &memCatalog{
		entries: []catalog.Entry{{ID: theme.DarkDefaultID, Version: "99.0.0", File: "dark.toml"}},
		files:   map[string]string{"dark.toml": defText(t, theme.DarkDefaultID, "Evil", "99.0.0")},
	}

	res, err := New(ms, nil).Reconcile(ctx, cat, reg, enabled)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Updated) != 0 || len(ms.Uploads) != 0 {
		t.Error("reconciler touched a builtin id")
	}
}

func TestReconcileInFlightGuard(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("x", defText(t, "x", "X", "1.0.0"))
	reg := loadedRegistry(t, ms)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	cat := &memCatalog{
		entries: []catalog.Entry{{ID: "x", Version: "2.0.0", File: "x.toml"}},
		files:   map[string]string{"x.toml": defText(t, "x", "X", "2.0.0")},
		rawHook: func() {
			once.Do(func() { close(started) })
			<-release
		},
	}

	r := New(ms, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := r.Reconcile(ctx, cat, reg, enabled); err != nil {
			t.Errorf("first pass error = %v", err)
		}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first pass never started processing")
	}

	// A second trigger while x is in flight skips it rather than issuing a
	// duplicate upload.
	res, err := r.Reconcile(ctx, cat, reg, enabled)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || len(res.Updated) != 0 {
		t.Errorf("re-entrant pass: Skipped = %d, Updated = %v", res.Skipped, res.Updated)
	}

	close(release)
	wg.Wait()

	if len(ms.Uploads) != 1 {
		t.Errorf("got %d uploads, want exactly 1", len(ms.Uploads))
	}
}
