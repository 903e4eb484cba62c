package watches

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "watches.yaml")
	content := `
watches:
  - id: oncology
    name: Oncology datasets
    keywords: [cancer, kidney]
    page_size: 5
    enrich: true
    request_delay_ms: 750
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write watches file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	all := reg.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 watch, got %d", len(all))
	}

	w, ok := reg.ByID("oncology")
	if !ok {
		t.Fatalf("expected watch id oncology to be loaded")
	}
	if len(w.Keywords) != 2 || w.Keywords[0] != "cancer" || w.Keywords[1] != "kidney" {
		t.Fatalf("unexpected keywords: %#v", w.Keywords)
	}
	if w.PageSize != 5 {
		t.Fatalf("unexpected page_size: %d", w.PageSize)
	}
	if !w.Enrich {
		t.Fatalf("expected enrich to be true")
	}
	if w.RequestDelay() != 750*time.Millisecond {
		t.Fatalf("unexpected request delay: %v", w.RequestDelay())
	}
}

func TestLoadRegistryDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "watches.yml")
	content := `
watches:
  - id: plasma
    name: Plasma proteome
    keywords: ["plasma"]
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write watches file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	w, _ := reg.ByID("plasma")
	if w.PageSize != defaultPageSize {
		t.Fatalf("expected default page size, got %d", w.PageSize)
	}
	if w.RequestDelayMs != defaultRequestDelayMs {
		t.Fatalf("expected default request delay, got %d", w.RequestDelayMs)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "watches.yaml")
	content := `
watches:
  - id: duplicate
    name: Watch One
    keywords: [a]
  - id: duplicate
    name: Watch Two
    keywords: [b]
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write watches file: %v", err)
	}

	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected duplicate watch error, got nil")
	}
}

func TestValidateWatchRequiresKeywords(t *testing.T) {
	err := validateWatch(Watch{ID: "w1", Name: "No terms"})
	if err == nil {
		t.Fatalf("expected validation error for missing keywords")
	}
}
