package findings

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSeverityRank(t *testing.T) {
	ordered := []Severity{
		SeverityInfo, SeverityLow, SeverityWarning, SeverityMedium,
		SeverityError, SeverityHigh, SeverityCritical,
	}
	for i := 1; i < len(ordered); i++ {
		if SeverityRank(ordered[i]) <= SeverityRank(ordered[i-1]) {
			t.Errorf("expected %s to rank above %s", ordered[i], ordered[i-1])
		}
	}
	if SeverityRank("bogus") != 0 {
		t.Error("unknown severity should rank 0")
	}
}

func TestIsBlocking(t *testing.T) {
	tests := []struct {
		sev      Severity
		blocking bool
	}{
		{SeverityCritical, true},
		{SeverityHigh, true},
		{SeverityError, true},
		{SeverityMedium, false},
		{SeverityWarning, false},
		{SeverityLow, false},
		{SeverityInfo, false},
	}
	for _, tt := range tests {
		if got := IsBlocking(tt.sev); got != tt.blocking {
			t.Errorf("IsBlocking(%s) = %v, want %v", tt.sev, got, tt.blocking)
		}
	}
}

func TestMeetsThreshold(t *testing.T) {
	if MeetsThreshold(SeverityCritical, "none") {
		t.Error("threshold none should never match")
	}
	if !MeetsThreshold(SeverityHigh, "MEDIUM") {
		t.Error("HIGH should meet MEDIUM threshold")
	}
	if MeetsThreshold(SeverityLow, "MEDIUM") {
		t.Error("LOW should not meet MEDIUM threshold")
	}
}

func TestFindingMarshalJSON_NullLine(t *testing.T) {
	f := Finding{
		Tool:     ToolCheckov,
		Path:     "Terraform/<unknown>",
		Severity: SeverityInfo,
		Message:  "resource not resolvable",
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"line":null`) {
		t.Errorf("file-level finding should marshal line as null, got %s", s)
	}
	if !strings.Contains(s, `"ruleId":null`) {
		t.Errorf("missing rule ID should marshal as null, got %s", s)
	}
}

func TestFindingMarshalJSON_WithLine(t *testing.T) {
	f := Finding{
		Tool:     ToolBandit,
		Path:     "app/main.py",
		Line:     12,
		Severity: SeverityHigh,
		RuleID:   "B602",
		Message:  "subprocess with shell=True",
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"line":12`) {
		t.Errorf("expected line 12, got %s", s)
	}
	if !strings.Contains(s, `"ruleId":"B602"`) {
		t.Errorf("expected ruleId B602, got %s", s)
	}
}

func TestFileLevel(t *testing.T) {
	if !(Finding{Line: 0}).FileLevel() {
		t.Error("line 0 should be file-level")
	}
	if (Finding{Line: 1}).FileLevel() {
		t.Error("line 1 should not be file-level")
	}
}
