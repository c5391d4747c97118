package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vuec/internal/buildpipeline"
	"vuec/internal/diag"
)

type events struct {
	mu  sync.Mutex
	got map[string][]buildpipeline.Status
}

func (e *events) OnEvent(evt buildpipeline.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.got == nil {
		e.got = make(map[string][]buildpipeline.Status)
	}
	name := filepath.Base(evt.File)
	e.got[name] = append(e.got[name], evt.Status)
}

func (e *events) last(name string) buildpipeline.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.got[name]
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListTemplates(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"b.vue":               "<p/>",
		"a/page.html":         "<p/>",
		"notes.txt":           "x",
		"node_modules/x.vue":  "<p/>",
		".cache/skipped.vue":  "<p/>",
		"a/deeper/widget.vue": "<p/>",
	})
	files, err := ListTemplates(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range files {
		files[i], _ = filepath.Rel(dir, f)
	}
	want := []string{filepath.Join("a", "deeper", "widget.vue"), filepath.Join("a", "page.html"), "b.vue"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
}

func TestCompileFilesKeepsOrder(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"one.vue":   `<p>{{ a }}</p>`,
		"two.vue":   `<p v-else>b</p>`,
		"three.vue": `<span>c</span>`,
	})
	paths := []string{filepath.Join(dir, "one.vue"), filepath.Join(dir, "two.vue"), filepath.Join(dir, "missing.vue"), filepath.Join(dir, "three.vue")}
	ev := &events{}
	batch, err := CompileFiles(context.Background(), paths, Options{MaxDiagnostics: 10, Jobs: 2, Progress: ev, Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range batch.Results {
		if res.Path != paths[i] {
			t.Fatalf("result %d is %s", i, res.Path)
		}
	}
	if res := batch.Results[0]; res.Err != nil || !strings.Contains(res.Result.Code, "_toDisplayString(_ctx.a)") {
		t.Fatalf("one.vue: %v\n%s", res.Err, res.Result.Code)
	}
	if res := batch.Results[1]; !errors.Is(res.Err, buildpipeline.ErrCompileFailed) || res.Result.Code != "" {
		t.Fatalf("two.vue: %v", res.Err)
	}
	if res := batch.Results[2]; res.Err == nil || res.Result.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing.vue: %v", res.Err)
	}
	if d := batch.Results[2].Result.Bag.Items()[0]; batch.Files.Get(d.Primary.File).Path != filepath.ToSlash(paths[2]) {
		t.Fatalf("load error points at %q", batch.Files.Get(d.Primary.File).Path)
	}
	if !batch.Failed() || batch.Diagnostics().ErrorCount() != 2 {
		t.Fatalf("batch diagnostics = %v", batch.Diagnostics().Items())
	}
	if ev.last("one.vue") != buildpipeline.StatusDone || ev.last("two.vue") != buildpipeline.StatusError || ev.last("missing.vue") != buildpipeline.StatusError {
		t.Fatalf("events = %v", ev.got)
	}
	if got := ev.got["three.vue"][0]; got != buildpipeline.StatusQueued {
		t.Fatalf("first event of three.vue = %s", got)
	}
	// три файла прошли все стадии, таймер их суммирует
	for _, ph := range batch.Timer.Report().Phases {
		if ph.Count != 3 {
			t.Fatalf("phase %s count = %d", ph.Name, ph.Count)
		}
	}
}

func TestCompileFilesCancelled(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"a.vue": "<p/>"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileFiles(ctx, []string{filepath.Join(dir, "a.vue")}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompileFileUsesCache(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"a.vue": `<div :class="c">{{ msg }}</div>`, "bad.vue": `<p v-else>x</p>`})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{MaxDiagnostics: 10, Cache: cache, Fingerprint: []byte("module")}

	_, first := CompileFile(context.Background(), filepath.Join(dir, "a.vue"), opts)
	if first.Err != nil || first.Cached {
		t.Fatalf("first compile: cached=%v err=%v", first.Cached, first.Err)
	}
	_, second := CompileFile(context.Background(), filepath.Join(dir, "a.vue"), opts)
	if !second.Cached || second.Result.Code != first.Result.Code {
		t.Fatalf("second compile not served from cache: %+v", second)
	}

	other := opts
	other.Fingerprint = []byte("function")
	if _, res := CompileFile(context.Background(), filepath.Join(dir, "a.vue"), other); res.Cached {
		t.Fatalf("fingerprint change still hit the cache")
	}

	_, bad := CompileFile(context.Background(), filepath.Join(dir, "bad.vue"), opts)
	_, badAgain := CompileFile(context.Background(), filepath.Join(dir, "bad.vue"), opts)
	if !badAgain.Cached || !errors.Is(badAgain.Err, buildpipeline.ErrCompileFailed) {
		t.Fatalf("cached failure = %+v", badAgain)
	}
	codes := func(r FileResult) []diag.Code {
		var out []diag.Code
		for _, d := range r.Result.Bag.Items() {
			out = append(out, d.Code)
		}
		return out
	}
	if !slices.Equal(codes(bad), codes(badAgain)) || badAgain.Result.Bag.Items()[0].Primary != bad.Result.Bag.Items()[0].Primary {
		t.Fatalf("diagnostics differ: %v vs %v", bad.Result.Bag.Items(), badAgain.Result.Bag.Items())
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, res := CompileFile(context.Background(), filepath.Join(dir, "a.vue"), opts); res.Cached {
		t.Fatalf("cache survived DropAll")
	}
}

func TestPartialCompileSkipsCache(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"a.vue": `<p>x</p>`})
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache, Fingerprint: []byte("k"), Until: buildpipeline.StageConvert}
	CompileFile(context.Background(), filepath.Join(dir, "a.vue"), opts)
	_, res := CompileFile(context.Background(), filepath.Join(dir, "a.vue"), opts)
	if res.Cached || res.Result.IR == nil {
		t.Fatalf("partial compile = %+v", res)
	}
}

func TestCompileFilesLoadsRepeatedPathOnce(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"a.vue": `<p>{{ a }}</p>`})
	path := filepath.Join(dir, "a.vue")
	batch, err := CompileFiles(context.Background(), []string{path, filepath.Join(dir, ".", "a.vue")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if batch.Files.Len() != 1 || batch.Results[0].FileID != batch.Results[1].FileID {
		t.Fatalf("files = %d, ids = %d %d", batch.Files.Len(), batch.Results[0].FileID, batch.Results[1].FileID)
	}
	if batch.Results[0].Result.Code == "" || batch.Results[0].Result.Code != batch.Results[1].Result.Code {
		t.Fatalf("codes differ")
	}
}
