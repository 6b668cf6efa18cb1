package rename

import (
	"testing"

	"nodeprobe/internal/shared/types"
)

func TestExpand_DefaultPattern(t *testing.T) {
	node := &types.NodeRecord{
		Name:  "Tokyo-01",
		Flag:  "🇯🇵",
		IP:    "1.2.3.4",
		Entry: "HK",
		Exit:  "JP",
	}
	got, err := Expand("{flag} {name} {entry}->{exit} ({ip})", node)
	if err != nil {
		t.Fatalf("Expand returned an error: %v", err)
	}
	want := "🇯🇵 Tokyo-01 HK->JP (1.2.3.4)"
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_EmptyFieldsFillAsEmpty(t *testing.T) {
	node := &types.NodeRecord{Name: "unnamed"}
	got, err := Expand("{flag}{name}({ip})", node)
	if err != nil {
		t.Fatalf("Expand returned an error: %v", err)
	}
	if got != "unnamed()" {
		t.Errorf("Expand = %q, want %q", got, "unnamed()")
	}
}

func TestExpand_UnknownPlaceholder(t *testing.T) {
	if _, err := Expand("{name} {latency}", &types.NodeRecord{Name: "x"}); err == nil {
		t.Error("expected an error for an unknown placeholder")
	}
}

func TestRoute(t *testing.T) {
	cases := []struct {
		entry, exit, want string
	}{
		{"HK", "JP", "HK->JP"},
		{"", "JP", "?->JP"},
		{"HK", "", "HK->?"},
		{"", "", "?->?"},
	}
	for _, c := range cases {
		node := &types.NodeRecord{Entry: c.entry, Exit: c.exit}
		if got := Route(node); got != c.want {
			t.Errorf("Route(%q,%q) = %q, want %q", c.entry, c.exit, got, c.want)
		}
	}
}
