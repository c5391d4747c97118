package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI with flags reset to their defaults.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range []*cobra.Command{compileCmd, dumpCmd, versionCmd} {
		reset(c.Flags())
	}
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func project(t *testing.T, manifest string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vuec.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
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

func TestCompileToStdout(t *testing.T) {
	dir := project(t, "[compile]\nmode = \"function\"\n", map[string]string{"app.vue": `<p>{{ msg }}</p>`})
	out, _, err := execute(t, "--config", filepath.Join(dir, "vuec.toml"), "compile", "--ui", "off", filepath.Join(dir, "app.vue"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "const _Vue = Vue\n") || !strings.Contains(out, "_toDisplayString(msg)") {
		t.Fatalf("output:\n%s", out)
	}

	// флаг перекрывает vuec.toml
	out, _, err = execute(t, "--config", filepath.Join(dir, "vuec.toml"), "compile", "--ui", "off", "--mode", "module", filepath.Join(dir, "app.vue"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "import { ") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCompileDirectory(t *testing.T) {
	dir := project(t, "", map[string]string{
		"src/a.vue":        `<p>a</p>`,
		"src/nested/b.vue": `<p>b</p>`,
	})
	outDir := filepath.Join(t.TempDir(), "dist")
	_, stderr, err := execute(t, "--config", filepath.Join(dir, "vuec.toml"), "compile", "--ui", "off", "-o", outDir, filepath.Join(dir, "src"))
	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}
	for _, name := range []string{"a.js", filepath.Join("nested", "b.js")} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "export function render(_ctx, _cache)") {
			t.Fatalf("%s:\n%s", name, data)
		}
	}
	if !strings.Contains(stderr, "compiled 2 templates") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestCompileReportsDiagnostics(t *testing.T) {
	dir := project(t, "", map[string]string{"bad.vue": `<p v-else>x</p>`})
	out, stderr, err := execute(t, "--config", filepath.Join(dir, "vuec.toml"), "compile", "--ui", "off", filepath.Join(dir, "bad.vue"))
	if err == nil || out != "" {
		t.Fatalf("err = %v, out = %q", err, out)
	}
	if !strings.Contains(stderr, "bad.vue:1:") {
		t.Fatalf("stderr = %q", stderr)
	}

	_, stderr, _ = execute(t, "--config", filepath.Join(dir, "vuec.toml"), "--diagnostics-format", "short", "compile", "--ui", "off", filepath.Join(dir, "bad.vue"))
	if !strings.Contains(stderr, "bad.vue:1:") || !strings.Contains(stderr, ": error TRN4001 ") {
		t.Fatalf("short stderr = %q", stderr)
	}
}

func TestRingTraceWrittenOnFailure(t *testing.T) {
	dir := project(t, "", map[string]string{"bad.vue": `<p v-else>x</p>`, "ok.vue": `<p>x</p>`})
	cfg := filepath.Join(dir, "vuec.toml")
	ring := func(file, out string) error {
		_, _, err := execute(t, "--config", cfg, "--trace", out, "--trace-level", "detail",
			"--trace-mode", "ring", "--trace-ring-size", "256", "compile", "--ui", "off", filepath.Join(dir, file))
		closeTracing(rootCmd, err)
		return err
	}

	failed := filepath.Join(dir, "failed.ndjson")
	if err := ring("bad.vue", failed); err == nil {
		t.Fatalf("expected compile failure")
	}
	data, err := os.ReadFile(failed)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"name":"compile_files"`, `"name":"transform"`, `"scope":"pass"`, `"name":"expand_structural"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("ring dump lacks %s:\n%s", want, data)
		}
	}

	clean := filepath.Join(dir, "clean.ndjson")
	if err := ring("ok.vue", clean); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(clean); !os.IsNotExist(err) {
		t.Fatalf("ring dumped for a successful compile: %v", err)
	}
}

func TestCompileNeedsOutDirForMany(t *testing.T) {
	dir := project(t, "", map[string]string{"a.vue": `<p/>`, "b.vue": `<p/>`})
	_, _, err := execute(t, "--config", filepath.Join(dir, "vuec.toml"), "compile", "--ui", "off", filepath.Join(dir, "a.vue"), filepath.Join(dir, "b.vue"))
	if err == nil || !strings.Contains(err.Error(), "need --out-dir") {
		t.Fatalf("err = %v", err)
	}
}

func TestDumpStages(t *testing.T) {
	dir := project(t, "", map[string]string{"app.vue": `<p v-if="ok">{{ a }}</p>`})
	file := filepath.Join(dir, "app.vue")
	cfg := filepath.Join(dir, "vuec.toml")

	out, _, err := execute(t, "--config", cfg, "dump", "--stage", "scan", "--format", "json", file)
	if err != nil {
		t.Fatal(err)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(out), &toks); err != nil || toks[0]["kind"] != "StartTag" {
		t.Fatalf("tokens %v: %s", err, out)
	}

	out, _, err = execute(t, "--config", cfg, "dump", "--stage", "convert", file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "structural:") {
		t.Fatalf("convert dump lacks structural directives:\n%s", out)
	}

	out, _, err = execute(t, "--config", cfg, "dump", file)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "structural:") || !strings.Contains(out, "- createCommentVNode") {
		t.Fatalf("transform dump:\n%s", out)
	}

	if _, _, err := execute(t, "--config", cfg, "dump", "--stage", "link", file); err == nil {
		t.Fatalf("unknown stage accepted")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.Tool != "vuec" || payload.Version == "" {
		t.Fatalf("payload %+v: %v", payload, err)
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		t    target
		want string
	}{
		{target{path: "src/App.vue"}, filepath.Join("dist", "App.js")},
		{target{path: filepath.Join("src", "a", "B.html"), root: "src"}, filepath.Join("dist", "a", "B.js")},
	}
	for _, tc := range cases {
		if got := outputPath("dist", tc.t); got != tc.want {
			t.Errorf("outputPath(%+v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatal("maybe accepted")
	}
}
