package statusexpr

import (
	"errors"
	"testing"
)

func mustCompile(t *testing.T, expr string) *Matcher {
	t.Helper()
	m, err := Compile(expr)
	if err != nil {
		t.Fatalf("Compile(%q) returned an error: %v", expr, err)
	}
	return m
}

func TestMatch_ExactAndRange(t *testing.T) {
	m := mustCompile(t, "204,200-299")

	cases := []struct {
		code int
		want bool
	}{
		{204, true},
		{250, true},
		{301, false},
		{199, false},
	}
	for _, c := range cases {
		if got := m.Match(c.code); got != c.want {
			t.Errorf("Match(%d) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestMatch_NotEqual(t *testing.T) {
	m := mustCompile(t, "!=200")
	if m.Match(200) {
		t.Error("Match(200) = true, want false")
	}
	for _, code := range []int{0, 199, 201, 404, 500} {
		if !m.Match(code) {
			t.Errorf("Match(%d) = false, want true", code)
		}
	}
}

func TestMatch_Comparisons(t *testing.T) {
	m := mustCompile(t, ">=400")
	if m.Match(399) {
		t.Error("Match(399) = true, want false")
	}
	if !m.Match(400) || !m.Match(500) {
		t.Error("expected 400 and 500 to match >=400")
	}

	m = mustCompile(t, "<300")
	if !m.Match(299) || m.Match(300) {
		t.Error("unexpected result for <300")
	}

	m = mustCompile(t, ">204")
	if m.Match(204) || !m.Match(205) {
		t.Error("unexpected result for >204")
	}

	m = mustCompile(t, "<=204")
	if !m.Match(204) || m.Match(205) {
		t.Error("unexpected result for <=204")
	}
}

func TestCompile_MalformedClause(t *testing.T) {
	_, err := Compile("abc")
	if err == nil {
		t.Fatal("Compile(\"abc\") should return an error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Clause != "abc" {
		t.Errorf("ParseError.Clause = %q, want %q", parseErr.Clause, "abc")
	}

	// 一个非法子句使整个表达式编译失败。
	if _, err := Compile("204,nope,500"); err == nil {
		t.Error("Compile with one bad clause should fail")
	}
}

func TestCompile_EmptyClausesDropped(t *testing.T) {
	m := mustCompile(t, "204,")
	if !m.Match(204) {
		t.Error("trailing comma should not affect matching")
	}

	// 全部子句为空等价于没有有效子句，是配置错误。
	if _, err := Compile(""); err == nil {
		t.Error("Compile(\"\") should fail")
	}
	if _, err := Compile(" , ,"); err == nil {
		t.Error("Compile of only empty clauses should fail")
	}
}

func TestMatch_InvertedRangeMatchesNothing(t *testing.T) {
	m := mustCompile(t, "300-200")
	for _, code := range []int{199, 200, 250, 300, 301} {
		if m.Match(code) {
			t.Errorf("inverted range should match nothing, matched %d", code)
		}
	}
}

func TestMatch_WhitespaceTolerated(t *testing.T) {
	m := mustCompile(t, " 204 , 200-299 , >= 400 ")
	if !m.Match(204) || !m.Match(250) || !m.Match(404) {
		t.Error("whitespace around clauses should be ignored")
	}
}

func TestString_ReturnsOriginalExpression(t *testing.T) {
	const expr = "204,200-299"
	if got := mustCompile(t, expr).String(); got != expr {
		t.Errorf("String() = %q, want %q", got, expr)
	}
}
