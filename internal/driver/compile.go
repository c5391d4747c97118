// Package driver compiles template files, one or many at a time, on top of
// buildpipeline. It owns file loading, the worker pool and the disk cache.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"vuec/internal/buildpipeline"
	"vuec/internal/diag"
	"vuec/internal/observ"
	"vuec/internal/source"
	"vuec/internal/trace"
)

// Options configures file compiles.
type Options struct {
	Pipeline       buildpipeline.Options
	MaxDiagnostics int
	// Until stops every compile after the given stage.
	Until buildpipeline.Stage
	// Jobs bounds parallel compiles; zero means GOMAXPROCS.
	Jobs int
	// Cache, when set, serves full compiles whose key matches.
	Cache *DiskCache
	// Fingerprint identifies Pipeline for cache keys. Callers derive it from
	// their configuration; the cache is skipped when it is empty.
	Fingerprint []byte
	Progress    buildpipeline.ProgressSink
	// Timings collects per-stage timers for every file.
	Timings bool
}

// FileResult is the outcome of one template.
type FileResult struct {
	Path   string
	FileID source.FileID
	Result buildpipeline.CompileResult
	Cached bool
	// Err is the compile error: load failures, ErrCompileFailed or cache I/O.
	Err   error
	Timer *observ.Timer
}

// Batch is the outcome of CompileFiles.
type Batch struct {
	Files   *source.FileSet
	Results []FileResult
	// Timer merges the per-file timers when Options.Timings is set.
	Timer *observ.Timer
}

// Failed reports whether any file failed.
func (b *Batch) Failed() bool {
	for i := range b.Results {
		if b.Results[i].Err != nil {
			return true
		}
	}
	return false
}

// Diagnostics returns one bag holding every file's diagnostics.
func (b *Batch) Diagnostics() *diag.Bag {
	total := 0
	for i := range b.Results {
		if bag := b.Results[i].Result.Bag; bag != nil {
			total += bag.Len()
		}
	}
	out := diag.NewBag(total)
	for i := range b.Results {
		if bag := b.Results[i].Result.Bag; bag != nil {
			out.Merge(bag)
		}
	}
	return out
}

// ListTemplates returns the sorted *.vue and *.html files under dir.
func ListTemplates(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".vue", ".html":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CompileFile compiles a single file.
func CompileFile(ctx context.Context, path string, opts Options) (*source.FileSet, FileResult) {
	opts.Jobs = 1
	batch, _ := CompileFiles(ctx, []string{path}, opts)
	return batch.Files, batch.Results[0]
}

// CompileFiles compiles paths in parallel. Results keep the order of paths.
// The returned error is only set when ctx is cancelled; per-file problems
// live in FileResult.Err.
func CompileFiles(ctx context.Context, paths []string, opts Options) (*Batch, error) {
	batch := &Batch{Files: source.NewFileSet(), Results: make([]FileResult, len(paths))}
	if opts.Timings {
		batch.Timer = observ.NewTimer()
	}
	if len(paths) == 0 {
		return batch, nil
	}

	// FileSet не потокобезопасен: загружаем всё заранее
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	for i, path := range paths {
		if id, ok := batch.Files.GetLatest(path); ok && batch.Files.Get(id).Flags&source.FileVirtual == 0 {
			// повторный путь компилируется из уже загруженного файла
			fileIDs[i] = id
			continue
		}
		if fileIDs[i], loadErrors[i] = batch.Files.Load(path); loadErrors[i] != nil {
			// пустой виртуальный файл, чтобы спан ошибки загрузки указывал на path
			fileIDs[i] = batch.Files.AddVirtual(path, nil)
		}
	}
	buildpipeline.EmitQueued(opts.Progress, paths)

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "compile_files", trace.ParentSpan(ctx))
	defer span.WithExtra("files", strconv.Itoa(len(paths))).End("")
	ctx = trace.WithSpan(ctx, span)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &batch.Results[i]
			res.Path = path
			res.FileID = fileIDs[i]
			if loadErrors[i] != nil {
				res.Result.Bag = loadFailure(opts.MaxDiagnostics, fileIDs[i], loadErrors[i])
				res.Err = fmt.Errorf("%s: %w", path, loadErrors[i])
				report(opts.Progress, path, buildpipeline.StatusError, res.Err)
				return nil
			}
			compileOne(gctx, batch.Files.Get(fileIDs[i]), opts, res)
			return nil
		})
	}
	err := g.Wait()

	if batch.Timer != nil {
		for i := range batch.Results {
			batch.Timer.Merge(batch.Results[i].Timer)
		}
	}
	return batch, err
}

func compileOne(ctx context.Context, f *source.File, opts Options, res *FileResult) {
	cacheable := opts.Cache != nil && len(opts.Fingerprint) > 0 && (opts.Until == "" || opts.Until == buildpipeline.StageEmit)
	var key Digest
	if cacheable {
		key = CacheKey(f, opts.Fingerprint)
		cached, ok, err := opts.Cache.Get(key)
		if err == nil && ok {
			res.Cached = true
			res.Result.Code = cached.Code
			res.Result.Bag = diag.NewBag(opts.MaxDiagnostics)
			cached.restore(f.ID, res.Result.Bag)
			if res.Result.Bag.HasErrors() {
				res.Err = fmt.Errorf("%s: %w: %d error(s)", f.Path, buildpipeline.ErrCompileFailed, res.Result.Bag.ErrorCount())
			}
			trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache_hit", f.Path, trace.ParentSpan(ctx))
			report(opts.Progress, f.Path, buildpipeline.StatusCached, nil)
			return
		}
		// битая запись кэша не мешает компиляции
	}

	req := &buildpipeline.CompileRequest{
		File:           f,
		Options:        opts.Pipeline,
		MaxDiagnostics: opts.MaxDiagnostics,
		Until:          opts.Until,
		Progress:       opts.Progress,
	}
	if opts.Timings {
		res.Timer = observ.NewTimer()
		req.Timer = res.Timer
	}
	result, err := buildpipeline.Compile(ctx, req)
	res.Result = result
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", f.Path, err)
	}
	if cacheable && (err == nil || errors.Is(err, buildpipeline.ErrCompileFailed)) {
		if putErr := opts.Cache.Put(key, newCachedOutput(result.Code, result.Bag)); putErr != nil && res.Err == nil {
			res.Err = fmt.Errorf("%s: cache: %w", f.Path, putErr)
		}
	}
}

func loadFailure(maxDiagnostics int, id source.FileID, err error) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
	return bag
}

func report(sink buildpipeline.ProgressSink, file string, status buildpipeline.Status, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(buildpipeline.Event{File: file, Stage: buildpipeline.StageEmit, Status: status, Err: err})
}
