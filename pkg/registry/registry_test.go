package registry

import (
	"context"
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
)

func defText(t *testing.T, id, name, version string) string {
	t.Helper()
	text, err := theme.Export(theme.Theme{
		Meta:   theme.Meta{ID: id, Name: name, Version: version},
		Colors: map[string]string{"primaryColor": "#123456"},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	return text
}

func TestNewSeedsBuiltins(t *testing.T) {
	r := New(store.NewMemStore(), nil)

	for _, id := range []string{theme.DarkDefaultID, theme.LightDefaultID} {
		if _, ok := r.Get(id); !ok {
			t.Errorf("builtin %q missing before Load", id)
		}
	}
	if !r.IsBuiltin(theme.DarkDefaultID) || r.IsBuiltin("nord") {
		t.Error("IsBuiltin misclassifies")
	}
}

func TestLoadMergesAndSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("nord", defText(t, "nord", "Nord", "1.0.0"))
	ms.Seed("broken", "not [ valid toml")
	ms.Seed("mismatched", defText(t, "other-id", "Other", "1.0.0"))

	r := New(ms, nil)
	if err := r.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, ok := r.Get("nord"); !ok {
		t.Error("nord not loaded")
	}
	if _, ok := r.Get("broken"); ok {
		t.Error("malformed definition entered the registry")
	}
	if _, ok := r.Get("mismatched"); ok {
		t.Error("definition with mismatched id entered the registry")
	}
	if _, ok := r.Get(theme.DarkDefaultID); !ok {
		t.Error("builtin lost during Load")
	}

	// One bad entry never aborts the batch.
	if got := len(r.List()); got != 3 { // 2 builtins + nord
		t.Errorf("List() has %d themes, want 3", got)
	}
}

func TestLoadBuiltinWinsIDCollision(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed(theme.DarkDefaultID, defText(t, theme.DarkDefaultID, "Impostor", "9.9.9"))

	r := New(ms, nil)
	if err := r.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, _ := r.Get(theme.DarkDefaultID)
	if got.Meta.Name != "Dark Default" {
		t.Errorf("builtin replaced by fetched theme: %q", got.Meta.Name)
	}
	if got.Meta.Provenance != theme.ProvenanceBuiltin {
		t.Errorf("provenance = %v, want builtin", got.Meta.Provenance)
	}
}

func TestLoadBackendFailure(t *testing.T) {
	ms := store.NewMemStore()
	ms.ListErr = errors.New("backend down")

	r := New(ms, nil)
	if err := r.Load(context.Background()); err == nil {
		t.Error("Load() succeeded with the backend listing unavailable")
	}
	// Built-ins stay usable.
	if _, ok := r.Get(theme.DarkDefaultID); !ok {
		t.Error("builtin unavailable after failed Load")
	}
}

func TestGetReturnsClones(t *testing.T) {
	r := New(store.NewMemStore(), nil)
	a, _ := r.Get(theme.DarkDefaultID)
	a.Colors["primaryColor"] = "#000000"

	b, _ := r.Get(theme.DarkDefaultID)
	if b.Colors["primaryColor"] == "#000000" {
		t.Error("Get() hands out aliased registry state")
	}
}

func TestPut(t *testing.T) {
	r := New(store.NewMemStore(), nil)

	th := theme.Theme{Meta: theme.Meta{ID: "mine", Name: "Mine"}, Colors: map[string]string{}}
	if err := r.Put(th); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := r.Get("mine"); !ok {
		t.Error("Put() theme not retrievable")
	}

	if err := r.Put(theme.Theme{Meta: theme.Meta{ID: theme.DarkDefaultID, Name: "X"}, Colors: map[string]string{}}); !errors.Is(err, ErrBuiltin) {
		t.Errorf("Put(builtin id) error = %v, want ErrBuiltin", err)
	}
	if err := r.Put(theme.Theme{Meta: theme.Meta{ID: "", Name: "X"}, Colors: map[string]string{}}); err == nil {
		t.Error("Put() accepted an invalid theme")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemStore()
	ms.Seed("nord", defText(t, "nord", "Nord", "1.0.0"))

	r := New(ms, nil)
	if err := r.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if err := r.Delete(ctx, "nord"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := r.Get("nord"); ok {
		t.Error("deleted theme still present")
	}

	// Absent id: backend 404 is success.
	if err := r.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete(absent) error = %v, want nil", err)
	}

	if err := r.Delete(ctx, theme.LightDefaultID); !errors.Is(err, ErrBuiltin) {
		t.Errorf("Delete(builtin) error = %v, want ErrBuiltin", err)
	}
}
