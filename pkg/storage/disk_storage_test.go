package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/types"
)

func TestSaveAndLoadJson(t *testing.T) {
	d := NewDiskStorage(t.TempDir())

	data := map[string]int{"a": 1, "b": 2}
	if err := d.SaveJson(data, "test.json"); err != nil {
		t.Fatalf("Could not save: %v", err)
	}

	loaded := make(map[string]int)
	if err := d.LoadJson(&loaded, "test.json"); err != nil {
		t.Fatalf("Could not load: %v", err)
	}
	if loaded["a"] != 1 || loaded["b"] != 2 {
		t.Errorf("Data changed on disk: %v", loaded)
	}

	// the temp file must be gone after the rename
	if _, err := os.Stat(filepath.Join(d.Path, "test.json.tmp")); !os.IsNotExist(err) {
		t.Error("Temp file left behind")
	}
}

func TestLoadJsonMissingFile(t *testing.T) {
	d := NewDiskStorage(t.TempDir())
	var data []int
	if err := d.LoadJson(&data, "missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSaveAndLoadGzippedGob(t *testing.T) {
	d := NewDiskStorage(t.TempDir())

	data := []string{"one", "two"}
	if err := d.SaveGzippedGob(data, "test.gob.gz"); err != nil {
		t.Fatalf("Could not save: %v", err)
	}

	var loaded []string
	if err := d.LoadGzippedGob(&loaded, "test.gob.gz"); err != nil {
		t.Fatalf("Could not load: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != "one" {
		t.Errorf("Data changed on disk: %v", loaded)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	d := NewDiskStorage(t.TempDir())

	idx := catalog.NewIndex()
	idx.Upsert(
		&types.Product{Id: 1, Name: types.LocalizedText{En: "Headphones", Ar: "سماعات"}, Price: 100, OfferPrice: 80, CategoryId: 1},
		&types.Product{Id: 2, Name: types.LocalizedText{En: "Watch"}, Price: 50, CategoryId: 1},
	)
	idx.SetCategories(&types.Category{Id: 1, Name: types.LocalizedText{En: "Electronics"}})

	if err := d.SaveCatalog(idx); err != nil {
		t.Fatalf("Could not save catalog: %v", err)
	}

	reloaded := catalog.NewIndex()
	if err := d.LoadCatalog(reloaded); err != nil {
		t.Fatalf("Could not load catalog: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("Expected 2 products, got %d", reloaded.Len())
	}
	p, ok := reloaded.Get(1)
	if !ok {
		t.Fatal("Product 1 missing after reload")
	}
	if p.Name.Ar != "سماعات" || p.EffectivePrice() != 80 {
		t.Error("Product data changed across the round trip")
	}
	if len(reloaded.Categories()) != 1 {
		t.Error("Categories lost across the round trip")
	}
}

func TestLoadCatalogMissingCategoriesIsNotFatal(t *testing.T) {
	d := NewDiskStorage(t.TempDir())

	idx := catalog.NewIndex()
	idx.Upsert(&types.Product{Id: 1, Price: 100})
	if err := d.SaveJson(idx.Products(), "products.json"); err != nil {
		t.Fatalf("Could not save products: %v", err)
	}

	reloaded := catalog.NewIndex()
	if err := d.LoadCatalog(reloaded); err != nil {
		t.Errorf("Missing categories file should not fail the load: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Errorf("Expected 1 product, got %d", reloaded.Len())
	}
}
