package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/codementor/internal/review"
)

func TestSARIFWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&SARIFWriter{}).Write(&buf, cleanReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var sarif sarifLog
	if err := json.Unmarshal(buf.Bytes(), &sarif); err != nil {
		t.Fatalf("Invalid SARIF JSON: %v", err)
	}
	if sarif.Version != "2.1.0" {
		t.Errorf("Version = %q, want %q", sarif.Version, "2.1.0")
	}
	if len(sarif.Runs) != 1 {
		t.Fatalf("Runs count = %d, want 1", len(sarif.Runs))
	}
	if sarif.Runs[0].Results == nil || len(sarif.Runs[0].Results) != 0 {
		t.Errorf("Results = %v, want empty array", sarif.Runs[0].Results)
	}
	if !strings.Contains(buf.String(), `"results": []`) {
		t.Error("empty results should serialize as an array")
	}
}

func TestSARIFWriter_WithVulnerabilities(t *testing.T) {
	var buf bytes.Buffer
	if err := (&SARIFWriter{}).Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var sarif sarifLog
	if err := json.Unmarshal(buf.Bytes(), &sarif); err != nil {
		t.Fatalf("Invalid SARIF JSON: %v", err)
	}
	run := sarif.Runs[0]
	if run.Tool.Driver.Name != "codementor" {
		t.Errorf("Driver name = %q", run.Tool.Driver.Name)
	}
	if len(run.Results) != 2 {
		t.Fatalf("Results count = %d, want 2", len(run.Results))
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("Rules count = %d, want 2", len(run.Tool.Driver.Rules))
	}

	r0 := run.Results[0]
	if r0.Level != "error" {
		t.Errorf("critical level = %q, want error", r0.Level)
	}
	loc := r0.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "handler.py" {
		t.Errorf("URI = %q", loc.ArtifactLocation.URI)
	}
	if loc.Region.StartLine != 12 || loc.Region.StartColumn == nil || *loc.Region.StartColumn != 8 {
		t.Errorf("Region = %+v", loc.Region)
	}
	if len(r0.Fixes) != 1 {
		t.Errorf("Fixes = %+v", r0.Fixes)
	}
	if run.Results[1].Level != "note" {
		t.Errorf("low level = %q, want note", run.Results[1].Level)
	}
}

func TestGenerateRuleID_Stable(t *testing.T) {
	v := review.Vulnerability{Type: "SQL Injection", CWE: "CWE-89"}
	id1 := generateRuleID(v)
	id2 := generateRuleID(v)
	if id1 != id2 {
		t.Errorf("rule IDs differ: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, "codementor/sql-injection/") {
		t.Errorf("rule ID = %q", id1)
	}
	if generateRuleID(review.Vulnerability{Type: "SQL Injection", CWE: "CWE-90"}) == id1 {
		t.Error("different CWE should give a different rule")
	}
}

func TestSeverityToLevel(t *testing.T) {
	tests := []struct {
		sev  review.Severity
		want string
	}{
		{review.SeverityCritical, "error"},
		{review.SeverityHigh, "error"},
		{review.SeverityMedium, "warning"},
		{review.SeverityLow, "note"},
		{review.SeverityInfo, "note"},
	}
	for _, tt := range tests {
		if got := severityToLevel(tt.sev); got != tt.want {
			t.Errorf("severityToLevel(%q) = %q, want %q", tt.sev, got, tt.want)
		}
	}
}
