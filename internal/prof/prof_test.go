package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.out"),
		Mem:   filepath.Join(dir, "mem.out"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{opts.CPU, opts.Mem, opts.Trace} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", filepath.Base(path))
		}
	}
	// повторный Stop ничего не делает
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestStartFailsCleanly(t *testing.T) {
	dir := t.TempDir()
	_, err := Start(Options{CPU: filepath.Join(dir, "cpu.out"), Trace: filepath.Join(dir, "missing", "trace.out")})
	if err == nil {
		t.Fatal("trace into a missing directory accepted")
	}
	// CPU-профиль должен быть остановлен: новый стартует без ошибки
	s, err := Start(Options{CPU: filepath.Join(dir, "cpu2.out")})
	if err != nil {
		t.Fatalf("cpu profile left running: %v", err)
	}
	_ = s.Stop()
}

func TestNilSession(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}
