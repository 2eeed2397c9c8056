package format_test

import (
	"strings"
	"testing"

	"vigil/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Run", "Pass Rate", "Open")
	tb.Row(1, "85.00%", 3)
	tb.Row(2, "90.00%", 2)
	out := tb.String()

	// StyleLight upper-cases headers.
	if !strings.Contains(out, "RUN") {
		t.Errorf("expected header 'RUN' in output:\n%s", out)
	}
	if !strings.Contains(out, "85.00%") {
		t.Errorf("expected '85.00%%' in output:\n%s", out)
	}
	// ASCII uses box-drawing characters from StyleLight
	if strings.Contains(out, "───") == false {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Defect", "Status")
	tb.Row("d-9f86d081885c", "Open")
	tb.Row("d-60303ae22b99", "Fixed")
	out := tb.String()

	// Markdown tables have | delimiters and --- separator
	if !strings.Contains(out, "| Defect") {
		t.Errorf("expected markdown header with '| Defect':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
	if !strings.Contains(out, "d-9f86d081885c") {
		t.Errorf("expected defect id in output:\n%s", out)
	}
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Severity", "Count")
	tb.Row("critical", 1)
	tb.Row("high", 2)
	tb.Footer("TOTAL", 3)
	out := tb.String()

	if !strings.Contains(out, "TOTAL") {
		t.Errorf("expected footer 'TOTAL' in output:\n%s", out)
	}
	if !strings.Contains(out, "3") {
		t.Errorf("expected footer value '3' in output:\n%s", out)
	}
}

func TestColumns_RightAlign(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Run", "Failed")
	tb.Row(12, 345)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	out := tb.String()

	if !strings.Contains(out, "345") {
		t.Errorf("expected '345' in output:\n%s", out)
	}
}

func TestSameData_DualFormat(t *testing.T) {
	build := func(m format.Mode) string {
		tb := format.NewTable(m)
		tb.Header("A", "B")
		tb.Row("x", "y")
		return tb.String()
	}

	ascii := build(format.ASCII)
	md := build(format.Markdown)

	if ascii == md {
		t.Error("ASCII and Markdown output should differ")
	}
	for _, out := range []string{ascii, md} {
		if !strings.Contains(out, "x") || !strings.Contains(out, "y") {
			t.Errorf("expected data in output:\n%s", out)
		}
	}
}

// --- Helper tests ---

func TestFmtPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00%"},
		{85, "85.00%"},
		{66.67, "66.67%"},
		{100, "100.00%"},
	}
	for _, tc := range tests {
		got := format.FmtPercent(tc.in)
		if got != tc.want {
			t.Errorf("FmtPercent(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0s"},
		{1500, "1s"},
		{59_000, "59s"},
		{60_000, "1m 0s"},
		{90_000, "1m 30s"},
		{315_000, "5m 15s"},
	}
	for _, tc := range tests {
		got := format.FmtDuration(tc.in)
		if got != tc.want {
			t.Errorf("FmtDuration(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"ab", 3, "ab"},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range tests {
		got := format.Truncate(tc.in, tc.maxLen)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
