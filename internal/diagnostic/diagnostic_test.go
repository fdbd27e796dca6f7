package diagnostic

import (
	"strings"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Category: CategoryTypeUnsupported,
		File:     "lib/index.d.ts",
		Line:     10,
		Column:   5,
		Message:  "conditional type printed as any",
		Hint:     "replace the conditional with an explicit union",
	}

	s := d.String()
	if !strings.Contains(s, "lib/index.d.ts:10:5") {
		t.Errorf("expected file:line:col, got %q", s)
	}
	if !strings.Contains(s, "warning") {
		t.Errorf("expected 'warning', got %q", s)
	}
	if !strings.Contains(s, "[type-unsupported]") {
		t.Errorf("expected category, got %q", s)
	}
	if !strings.Contains(s, "hint:") {
		t.Errorf("expected hint, got %q", s)
	}
}

func TestCollector_WarnAndError(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryMemberDropped, "test.ts", 5, "construct signature dropped")
	c.Error(CategoryConfigInvalid, "", 0, "missing include")

	if c.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", c.WarningCount())
	}
	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", c.ErrorCount())
	}
	if !c.HasErrors() {
		t.Error("expected HasErrors() = true")
	}
}

func TestCollector_StrictMode(t *testing.T) {
	c := NewCollector(true, false)
	c.Warn(CategoryTypeUnsupported, "test.ts", 1, "unsupported type")

	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error (strict mode), got %d", c.ErrorCount())
	}
	if c.WarningCount() != 0 {
		t.Errorf("expected 0 warnings (strict mode), got %d", c.WarningCount())
	}
}

func TestCollector_QuietMode(t *testing.T) {
	c := NewCollector(false, true)
	c.Warn(CategoryTypeUnsupported, "test.ts", 1, "unsupported type")
	c.Info(CategoryStatementUnsupported, "test.ts", 1, "statement skipped")
	c.Error(CategoryConfigInvalid, "", 0, "real error")

	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected 1 diagnostic (only error), got %d", len(c.Diagnostics()))
	}
}

func TestCollector_SetQuiet(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryTypeUnsupported, "a.ts", 1, "first")
	c.SetQuiet(true)
	c.Warn(CategoryTypeUnsupported, "a.ts", 2, "second")

	if c.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", c.WarningCount())
	}
}

func TestCollector_Observe(t *testing.T) {
	c := NewCollector(false, false)
	var seen []string
	c.Observe(func(d Diagnostic) { seen = append(seen, d.Message) })
	c.Warn(CategoryTypeUnsupported, "a.ts", 1, "one")
	c.Error(CategorySyntax, "a.ts", 2, "two")

	if len(seen) != 2 || seen[0] != "one" || seen[1] != "two" {
		t.Errorf("unexpected observed diagnostics: %v", seen)
	}

	c.Reset()
	if len(c.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics after Reset, got %d", len(c.Diagnostics()))
	}
	c.Warn(CategoryTypeUnsupported, "a.ts", 3, "three")
	if len(seen) != 3 {
		t.Errorf("observer should survive Reset, saw %d", len(seen))
	}
}

func TestCollector_Summary(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryTypeUnsupported, "a.ts", 1, "warn1")
	c.Warn(CategoryMemberDropped, "b.ts", 2, "warn2")
	c.Error(CategoryConfigInvalid, "", 0, "err1")

	summary := c.Summary()
	if !strings.Contains(summary, "1 error") {
		t.Errorf("expected '1 error' in summary, got %q", summary)
	}
	if !strings.Contains(summary, "2 warning") {
		t.Errorf("expected '2 warning' in summary, got %q", summary)
	}
	if NewCollector(false, false).Summary() != "no issues" {
		t.Error("expected 'no issues' for an empty collector")
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.Warn(CategoryTypeUnsupported, "", 0, "test")
	c.Error(CategoryConfigInvalid, "", 0, "test")
	c.Observe(func(Diagnostic) {})
	c.Reset()
	if c.HasErrors() {
		t.Error("nil collector should not have errors")
	}
	if c.Summary() != "" {
		t.Error("nil collector should return empty summary")
	}
}

func TestCollector_FormatAll(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryTypeUnsupported, "test.ts", 10, "type not supported")

	formatted := c.FormatAll()
	if !strings.Contains(formatted, "test.ts:10") {
		t.Errorf("expected formatted output with file:line, got %q", formatted)
	}
}

func TestCollector_WarnWithHint(t *testing.T) {
	c := NewCollector(false, false)
	c.WarnWithHint(CategoryTypeUnsupported, "test.ts", 5, "infer not supported", "annotate the type explicitly")

	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Hint != "annotate the type explicitly" {
		t.Errorf("expected hint, got %v", diags)
	}
}
