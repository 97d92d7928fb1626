package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"pystyle/internal/diag"
	"pystyle/internal/source"
)

// Status of one file inside a directory run, for progress consumers.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification from a directory run.
type Event struct {
	File   string
	Status Status
}

// ListPyFiles возвращает отсортированный список всех *.py в директории.
func ListPyFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Скрытые каталоги и виртуальные окружения не проверяем.
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "__pycache__" || name == "venv") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
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

// CheckDir analyzes every *.py file under dir in parallel. Result order
// matches the sorted file list regardless of scheduling: each goroutine
// writes only its own result slot, and the shared FileSet synchronizes
// its own Add/Get. events may be nil.
func CheckDir(ctx context.Context, dir string, o Options, events chan<- Event) (*source.FileSet, []CheckResult, error) {
	files, err := ListPyFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			notify(events, Event{File: path, Status: StatusWorking})

			res, err := CheckFile(fileSet, path, o)
			if err != nil {
				// Нечитаемый файл не роняет весь прогон: ошибка
				// оседает в результате, остальные файлы проверяются.
				results[i] = CheckResult{
					Path: path,
					Bag:  diag.NewBag(o.MaxViolations),
					Err:  err,
				}
				notify(events, Event{File: path, Status: StatusError})
				return nil
			}

			results[i] = res
			notify(events, Event{File: path, Status: StatusDone})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// FixDir applies safe rewrites to every *.py file under dir.
func FixDir(ctx context.Context, dir string, o Options, write bool, events chan<- Event) ([]FixOutcome, error) {
	files, err := ListPyFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	fileSet := source.NewFileSetWithBase(dir)

	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]FixOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			notify(events, Event{File: path, Status: StatusWorking})

			out, err := FixFile(fileSet, path, o, write)
			if err != nil {
				notify(events, Event{File: path, Status: StatusError})
				return err
			}

			outcomes[i] = out
			notify(events, Event{File: path, Status: StatusDone})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func notify(events chan<- Event, ev Event) {
	if events == nil {
		return
	}
	events <- ev
}
