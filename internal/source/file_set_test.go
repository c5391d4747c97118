package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("App.vue", []byte("<div/>"), 0)
	id2 := fs.Add("App.vue", []byte("<span/>"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids: %d %d", id1, id2)
	}

	latest, ok := fs.GetLatest("App.vue")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if got := fs.Get(id1).Text; got != "<div/>" {
		t.Errorf("old version lost: %q", got)
	}
}

func TestAddVirtualNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("inline.vue", []byte("a\r\nb\r\n"))
	f := fs.Get(id)

	if f.Text != "a\nb\n" {
		t.Fatalf("expected CRLF normalized, got %q", f.Text)
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) || f.LineIdx[0] != want[0] || f.LineIdx[1] != want[1] {
		t.Errorf("unexpected line index %v", f.LineIdx)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.vue", []byte("<div>\n  {{ a }}\n</div>"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{5, LineCol{1, 6}},
		{6, LineCol{2, 1}},
		{8, LineCol{2, 3}},
		{16, LineCol{3, 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: want %+v, got %+v", tt.off, tt.want, start)
		}
	}
}

func TestGetLineAndSlice(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.vue", []byte("one\ntwo\nthree")))

	if got := f.GetLine(2); got != "two" {
		t.Errorf("line 2: %q", got)
	}
	if got := f.GetLine(3); got != "three" {
		t.Errorf("line 3: %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("line 4 should be empty, got %q", got)
	}
	if got := f.Slice(Span{Start: 4, End: 7}); got != "two" {
		t.Errorf("slice: %q", got)
	}
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.vue")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF<p/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if f.Text != "<p/>" || f.Flags&FileHadBOM == 0 {
		t.Errorf("expected BOM stripped, got %q flags=%b", f.Text, f.Flags)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("cover: %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("cover across files must keep receiver, got %v", got)
	}
	if !a.Contains(Span{File: 1, Start: 5, End: 8}) {
		t.Error("expected containment")
	}
	if got := a.Sub(1, 3); got != (Span{File: 1, Start: 5, End: 7}) {
		t.Errorf("sub: %v", got)
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")

	if got := RelativePath(filepath.Join(base, "nested", "a.vue"), base); got != "nested/a.vue" {
		t.Errorf("inside base: %q", got)
	}
	outside := filepath.Join(tmp, "other", "b.vue")
	if got := RelativePath(outside, base); got != filepath.ToSlash(outside) {
		t.Errorf("outside base should fall back to absolute, got %q", got)
	}
}
