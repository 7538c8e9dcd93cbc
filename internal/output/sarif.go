package output

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/codementor/internal/review"
)

// ToolVersion is reported as the SARIF driver version. Set by the cli package.
var ToolVersion = "dev"

// SARIFWriter outputs vulnerabilities in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, rep *Report) error {
	sarif := buildSARIF(rep)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int  `json:"startLine"`
	StartColumn *int `json:"startColumn,omitempty"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func buildSARIF(rep *Report) sarifLog {
	var vulns []review.Vulnerability
	if rep.Result != nil {
		vulns = rep.Result.Vulnerabilities
	}
	uri := rep.FileName
	if uri == "" {
		uri = "stdin"
	}

	results := []sarifResult{}
	var rules []sarifRule
	seen := make(map[string]bool)

	for _, v := range vulns {
		ruleID := generateRuleID(v)
		if !seen[ruleID] {
			seen[ruleID] = true
			var tags []string
			if v.CWE != "" {
				tags = append(tags, v.CWE)
			}
			rules = append(rules, sarifRule{
				ID:               ruleID,
				Name:             v.Type,
				ShortDescription: sarifMessage{Text: vulnTitle(v)},
				DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(v.Severity)},
				Properties:       sarifRuleProperties{Tags: tags},
			})
		}

		msg := v.Message
		if v.Description != "" {
			msg = strings.TrimSpace(msg + "\n" + v.Description)
		}
		result := sarifResult{
			RuleID:  ruleID,
			Level:   severityToLevel(v.Severity),
			Message: sarifMessage{Text: msg},
		}
		if v.Line > 0 {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: uri},
					Region:           sarifRegion{StartLine: v.Line, StartColumn: v.Column},
				},
			}}
		}
		if v.Recommendation != "" {
			result.Fixes = append(result.Fixes, sarifFix{
				Description: sarifMessage{Text: v.Recommendation},
			})
		}

		results = append(results, result)
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "codementor",
						Version: ToolVersion,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps vulnerability severity to SARIF level.
func severityToLevel(s review.Severity) string {
	switch s {
	case review.SeverityCritical, review.SeverityHigh:
		return "error"
	case review.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// generateRuleID creates a stable rule ID from the vulnerability type and CWE.
func generateRuleID(v review.Vulnerability) string {
	typ := v.Type
	if typ == "" {
		typ = "vulnerability"
	}
	h := sha256.Sum256([]byte(typ + "/" + v.CWE))
	return fmt.Sprintf("codementor/%s/%x", slug(typ), h[:4])
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}), "-")
}
