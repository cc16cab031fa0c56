package main

import (
	"strings"
	"testing"

	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getPaths(tt.args)
			if len(result) != len(tt.expected) {
				t.Fatalf("getPaths() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func reportWith(issues ...models.Issue) *models.Report {
	return models.NewReport("doc", 0, issues)
}

func TestCheckFailOn(t *testing.T) {
	errIssue := models.Issue{Type: "mouse-only-click", Severity: models.SeverityError, Confidence: ir.ConfidenceHigh}
	warnIssue := models.Issue{Type: "positive-tabindex", Severity: models.SeverityWarning, Confidence: ir.ConfidenceHigh}

	tests := []struct {
		name    string
		failOn  string
		reports []*models.Report
		wantErr bool
	}{
		{
			name:    "empty never fails",
			failOn:  "",
			reports: []*models.Report{reportWith(errIssue)},
			wantErr: false,
		},
		{
			name:    "error severity with errors fails",
			failOn:  "error",
			reports: []*models.Report{reportWith(errIssue)},
			wantErr: true,
		},
		{
			name:    "error severity with only warnings passes",
			failOn:  "error",
			reports: []*models.Report{reportWith(warnIssue)},
			wantErr: false,
		},
		{
			name:    "warning severity with warnings fails",
			failOn:  "warning",
			reports: []*models.Report{reportWith(warnIssue)},
			wantErr: true,
		},
		{
			name:    "clean reports pass",
			failOn:  "warning",
			reports: []*models.Report{reportWith()},
			wantErr: false,
		},
		{
			name:    "unknown severity rejected",
			failOn:  "bogus",
			reports: []*models.Report{reportWith()},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFailOn(tt.failOn, tt.reports)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkFailOn(%q) error = %v, wantErr %v", tt.failOn, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig() error = %v", err)
	}
	if !strings.HasPrefix(content, "# Ariadne CLI Configuration") {
		t.Error("config missing header comment")
	}
	if !strings.Contains(content, "Analysis") {
		t.Error("config missing analysis section")
	}
}
