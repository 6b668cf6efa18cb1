package config

import (
	"os"
	"path/filepath"
	"testing"

	"nodeprobe/internal/shared/types"
)

func TestNodeFromRaw_FallbackKeys(t *testing.T) {
	raw := map[string]any{
		"emoji":       "🇭🇰",
		"address":     "5.6.7.8",
		"ingress":     "SZ",
		"destination": "HK",
		"type":        "Trojan",
	}
	node := NodeFromRaw(raw, 3)

	if node.Index != 3 {
		t.Errorf("Index = %d, want 3", node.Index)
	}
	if node.Name != "unnamed" {
		t.Errorf("Name = %q, want %q when missing", node.Name, "unnamed")
	}
	if node.Flag != "🇭🇰" {
		t.Errorf("Flag = %q, emoji alias not applied", node.Flag)
	}
	if node.IP != "5.6.7.8" {
		t.Errorf("IP = %q, address alias not applied", node.IP)
	}
	if node.Entry != "SZ" {
		t.Errorf("Entry = %q, ingress alias not applied", node.Entry)
	}
	if node.Exit != "HK" {
		t.Errorf("Exit = %q, destination alias not applied", node.Exit)
	}
	if node.Protocol != "trojan" {
		t.Errorf("Protocol = %q, want lower-cased %q", node.Protocol, "trojan")
	}
}

func TestNodeFromRaw_PrimaryKeysWinOverAliases(t *testing.T) {
	raw := map[string]any{
		"entry":   "primary",
		"ingress": "alias",
	}
	if node := NodeFromRaw(raw, 1); node.Entry != "primary" {
		t.Errorf("Entry = %q, primary key must win", node.Entry)
	}
}

func TestNodeFromRaw_TrimsAndSkipsEmpty(t *testing.T) {
	raw := map[string]any{
		"name": "  ",
		"ip":   "",
		"addr": " 9.9.9.9 ",
	}
	node := NodeFromRaw(raw, 1)
	if node.Name != "unnamed" {
		t.Errorf("Name = %q, blank name must fall back to unnamed", node.Name)
	}
	if node.IP != "9.9.9.9" {
		t.Errorf("IP = %q, empty primary must fall through to alias", node.IP)
	}
}

func TestNodesFromRaw_AssignsStableIndexes(t *testing.T) {
	nodes := NodesFromRaw([]map[string]any{
		{"name": "a"}, {"name": "b"}, {"name": "c"},
	})
	for i, node := range nodes {
		if node.Index != i+1 {
			t.Errorf("nodes[%d].Index = %d, want %d", i, node.Index, i+1)
		}
	}
}

func TestLoadIni_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodeprobe.ini")
	data := "[probe]\nstatus = 200-299\nconcurrency = 12\n\n[relay]\nhost = 127.0.0.1\nport = 9910\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := types.DefaultConfig()
	if err := LoadIni(cfg, path); err != nil {
		t.Fatalf("LoadIni returned an error: %v", err)
	}

	if cfg.ProbeConf.Status != "200-299" {
		t.Errorf("Status = %q, want %q", cfg.ProbeConf.Status, "200-299")
	}
	if cfg.ProbeConf.Concurrency != 12 {
		t.Errorf("Concurrency = %d, want 12", cfg.ProbeConf.Concurrency)
	}
	// 文件未提及的键保持默认值
	if cfg.ProbeConf.TimeoutMs != 1000 {
		t.Errorf("TimeoutMs = %d, want default 1000", cfg.ProbeConf.TimeoutMs)
	}
	if !cfg.RelayConf.Enabled() || cfg.RelayConf.Port != 9910 {
		t.Errorf("RelayConf = %+v, want enabled on 127.0.0.1:9910", cfg.RelayConf)
	}
}

func TestLoadIni_MissingFileKeepsDefaults(t *testing.T) {
	cfg := types.DefaultConfig()
	if err := LoadIni(cfg, filepath.Join(t.TempDir(), "absent.ini")); err != nil {
		t.Fatalf("LoadIni for a missing file should not error, got: %v", err)
	}
	if cfg.ProbeConf.Status != "204" {
		t.Errorf("Status = %q, want default %q", cfg.ProbeConf.Status, "204")
	}
}
