package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultCompetitions_Weights(t *testing.T) {
	comps := DefaultCompetitions()
	if len(comps) != 10 {
		t.Fatalf("len = %d, want 10", len(comps))
	}
	if comps[0].Code != "CL" {
		t.Errorf("first competition = %q, want CL", comps[0].Code)
	}
	weights := make(map[string]float64, len(comps))
	for _, c := range comps {
		weights[c.Code] = c.Weight
	}
	if w := weights["CL"]; w != 1.08 {
		t.Errorf("CL weight = %v, want 1.08", w)
	}
	if w := weights["DED"]; w != 0.98 {
		t.Errorf("DED weight = %v, want 0.98", w)
	}
}

func TestParseCompetitions_DefaultWeight(t *testing.T) {
	doc := `
competitions:
  - name: Premier League
    code: PL
    weight: 1.05
  - name: Süper Lig
    code: TSL
`
	comps, err := ParseCompetitions([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("len = %d, want 2", len(comps))
	}
	if comps[0].Weight != 1.05 {
		t.Errorf("PL weight = %v, want 1.05", comps[0].Weight)
	}
	if comps[1].Weight != 1.0 {
		t.Errorf("TSL weight = %v, want default 1.0", comps[1].Weight)
	}
}

func TestParseCompetitions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty list", "competitions: []\n", "validate"},
		{"missing code", "competitions:\n  - name: X\n", "validate"},
		{"weight too high", "competitions:\n  - name: X\n    code: X\n    weight: 5\n", "validate"},
		{"duplicate code", "competitions:\n  - name: A\n    code: PL\n  - name: B\n    code: PL\n", "duplicate"},
		{"bad yaml", "competitions: [", "parse"},
	}
	for _, tt := range tests {
		_, err := ParseCompetitions([]byte(tt.doc))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestLoad_CompetitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "competitions.yaml")
	doc := "competitions:\n  - name: Premier League\n    code: PL\n    weight: 1.05\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COMPETITIONS_FILE", path)
	t.Setenv("STORE_BACKEND", "file")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Competitions) != 1 || cfg.Competitions[0].Code != "PL" {
		t.Errorf("competitions = %+v, want only PL", cfg.Competitions)
	}
	if cfg.PickThreshold != 65 {
		t.Errorf("PickThreshold = %v, want 65", cfg.PickThreshold)
	}
	if cfg.TeamSampleSize != 10 {
		t.Errorf("TeamSampleSize = %d, want 10", cfg.TeamSampleSize)
	}
	_, offset := time.Now().In(cfg.Location).Zone()
	if offset != 3*3600 {
		t.Errorf("zone offset = %d, want %d", offset, 3*3600)
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}
