// Package prof wraps runtime/pprof and runtime/trace for the CLI profiling
// flags.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the output files; empty paths are skipped.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Session is a running set of profiles.
type Session struct {
	mem       string
	cpuFile   *os.File
	traceFile *os.File
}

// Start enables the requested profiles. Nothing is left running on error.
func Start(opts Options) (*Session, error) {
	s := &Session{mem: opts.Mem}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		s.cpuFile = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			_ = s.Stop()
			return nil, err
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends CPU and trace capture, then writes the heap profile.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
		s.cpuFile = nil
	}
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
		s.traceFile = nil
	}
	if s.mem != "" {
		errs = append(errs, writeMem(s.mem))
		s.mem = ""
	}
	return errors.Join(errs...)
}

// writeMem captures a heap profile to the supplied file path.
func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
