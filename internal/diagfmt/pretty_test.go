package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"vuec/internal/diag"
	"vuec/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("<div>{{ msg </div>\n")
	fileID := fs.AddVirtual("/home/user/project/src/App.vue", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.ScnUnterminatedInterp,
		source.Span{File: fileID, Start: 5, End: 18},
		"Unterminated interpolation",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/App.vue"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/App.vue:1:6"},
		{name: "Basename only", mode: PathModeBasename, contains: "App.vue:1:6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SCN1002") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaretUnderline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.vue", []byte("<p v-else>x</p>"))

	bag := diag.NewBag(2)
	d := diag.NewError(diag.TrnElseWithoutIf, source.Span{File: fileID, Start: 3, End: 9}, "v-else has no adjacent v-if")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 2}, "element starts here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if lines[1] != " 1 | <p v-else>x</p>" {
		t.Errorf("source line = %q", lines[1])
	}
	if lines[2] != "   |    ^~~~~~" {
		t.Errorf("caret line = %q", lines[2])
	}
	if !strings.Contains(buf.String(), "note: a.vue:1:1: element starts here") {
		t.Errorf("expected note, got:\n%s", buf.String())
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("w.vue", []byte("<p>日本 {{</p>"))

	bag := diag.NewBag(1)
	// "{{" starts after "<p>" (3 bytes) + two 3-byte runes + space
	bag.Add(diag.NewError(diag.ScnUnterminatedInterp, source.Span{File: fileID, Start: 10, End: 12}, "unterminated"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	// display width: <p> = 3, 日本 = 4, space = 1
	if want := "   | " + strings.Repeat(" ", 8) + "^~"; lines[2] != want {
		t.Errorf("caret line = %q, want %q", lines[2], want)
	}
}
