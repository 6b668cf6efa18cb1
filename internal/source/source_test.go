package source

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"nodeprobe/internal/shared/types"
)

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	if err := os.WriteFile(path, []byte(`[{"name":"A"},{"name":"B"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	rawNodes, err := src.Fetch()
	if err != nil {
		t.Fatalf("Fetch returned an error: %v", err)
	}
	if len(rawNodes) != 2 {
		t.Fatalf("len = %d, want 2", len(rawNodes))
	}
	if rawNodes[0]["name"] != "A" {
		t.Errorf("rawNodes[0] = %v", rawNodes[0])
	}
}

func TestFileSource_RejectsNonList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	if err := os.WriteFile(path, []byte(`{"name":"A"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSource(path).Fetch(); err == nil {
		t.Error("expected an error for a non-list document")
	}
}

func TestHTMLTableSource_Fetch(t *testing.T) {
	const page = `<html><body><table><tbody>
		<tr><td>1.2.3.4</td><td>8080</td></tr>
		<tr><td>5.6.7.8</td><td>3128</td></tr>
		<tr><td>bad.row</td><td>not-a-port</td></tr>
	</tbody></table></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	src := NewHTMLTableSource(server.URL)
	rawNodes, err := src.Fetch()
	if err != nil {
		t.Fatalf("Fetch returned an error: %v", err)
	}
	if len(rawNodes) != 2 {
		t.Fatalf("len = %d, want 2 (bad row skipped)", len(rawNodes))
	}
	if rawNodes[0]["ip"] != "1.2.3.4" || rawNodes[0]["port"] != 8080 {
		t.Errorf("rawNodes[0] = %v", rawNodes[0])
	}
	if rawNodes[1]["name"] != "5.6.7.8:3128" {
		t.Errorf("rawNodes[1] = %v", rawNodes[1])
	}
}

func TestNew_SelectsKind(t *testing.T) {
	if _, err := New(types.SourceConf{Kind: "file"}, ""); err == nil {
		t.Error("file source without an input path should fail")
	}
	if _, err := New(types.SourceConf{Kind: "htmltable"}, ""); err == nil {
		t.Error("htmltable source without a url should fail")
	}
	if _, err := New(types.SourceConf{Kind: "wat"}, ""); err == nil {
		t.Error("unknown source kind should fail")
	}
	src, err := New(types.SourceConf{Kind: "file"}, "nodes.json")
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}
	if src.Name() != "nodes.json" {
		t.Errorf("Name = %q", src.Name())
	}
}
