//go:build integration

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/dshills/plantdx/internal/schema"
)

// fixture returns the absolute path of a file under testdata. It must be
// called before isolate changes the working directory.
func fixture(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("abs %s: %v", name, err)
	}
	return p
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, afero.NewOsFs(), args...)
	if err != nil {
		t.Fatalf("plantdx %s: %v (exit %d)", strings.Join(args, " "), err, exitCode(err))
	}
	return out
}

func TestIntegration_SQLiteEditWorkflow(t *testing.T) {
	kbFile := fixture(t, "kb.yaml")
	isolate(t)
	db := filepath.Join(t.TempDir(), "plantdx.db")
	sq := []string{"--kb-driver", "sqlite", "--kb-path", db}

	out := mustRun(t, append(sq, "kb", "show")...)
	if !strings.Contains(out, "Diseases: 12") {
		t.Fatalf("fresh database should serve the default knowledge base:\n%s", out)
	}

	mustRun(t, append(sq, "kb", "import", kbFile)...)
	mustRun(t, append(sq, "kb", "rule", "add", "d2", "--id", "r3", "--conditions", "s1,s9", "--weight", "10")...)

	var report schema.Report
	if err := json.Unmarshal([]byte(mustRun(t, append(sq, "diagnose", "-p", "tomato", "-s", "s1,s9", "-f", "json")...)), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.Diagnoses != 2 {
		t.Fatalf("diagnoses = %d, want 2", report.Summary.Diagnoses)
	}
	top := report.Result.Results[0]
	if top.Disease.ID != "d2" || top.BestRule.ID != "r3" {
		t.Errorf("top = %s via %s, want d2 via r3", top.Disease.ID, top.BestRule.ID)
	}
	if !strings.Contains(report.Result.ConflictResolution, "Conflict resolution applied") {
		t.Errorf("narrative = %q", report.Result.ConflictResolution)
	}

	mustRun(t, append(sq, "kb", "reset")...)
	out = mustRun(t, append(sq, "kb", "show")...)
	if !strings.Contains(out, "Rules: 36") {
		t.Errorf("reset should restore the default:\n%s", out)
	}
}

func TestIntegration_FileStoreAndBatch(t *testing.T) {
	kbFile := fixture(t, "kb.yaml")
	casesFile := fixture(t, "cases.yaml")
	isolate(t)
	dir := t.TempDir()
	stored := filepath.Join(dir, "kb.json")
	fileArgs := []string{"--kb-driver", "file", "--kb-path", stored}

	mustRun(t, append(fileArgs, "kb", "import", kbFile)...)
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("import should write %s: %v", stored, err)
	}

	reportPath := filepath.Join(dir, "batch.json")
	mustRun(t, append(fileArgs, "batch", casesFile, "-f", "json", "-o", reportPath)...)
	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report schema.BatchReport
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("decode batch report: %v", err)
	}
	if len(report.Cases) != 5 {
		t.Fatalf("cases = %d, want 5", len(report.Cases))
	}
	want := []string{"greenhouse-1", "greenhouse-2", "field-north", "field-south", "pots"}
	for i, c := range report.Cases {
		if c.Case.ID != want[i] {
			t.Errorf("case %d = %s, want %s", i, c.Case.ID, want[i])
		}
	}
	if got := report.Cases[0].Summary.TopDisease; got != "Early Blight" {
		t.Errorf("greenhouse-1 top = %q", got)
	}
	// The imported knowledge base has no potato diseases.
	if got := report.Cases[2].Summary.Diagnoses; got != 0 {
		t.Errorf("field-north diagnoses = %d, want 0", got)
	}
}

func TestIntegration_ConfigFile(t *testing.T) {
	isolate(t)
	cfg := "output:\n  format: json\nlog:\n  level: error\n"
	if err := os.WriteFile("plantdx.yaml", []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, "diagnose", "-p", "potato", "-s", "s16")
	var report schema.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("config file should select json output: %v\n%s", err, out)
	}
	if report.Input.Plant != schema.PlantPotato {
		t.Errorf("plant = %q", report.Input.Plant)
	}
}
