package source

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Log is the raw content of one log file
type Log struct {
	Path  string
	Lines []string
}

// ReadLog reads every line of a log file
func ReadLog(path string) (*Log, error) {
	src, err := NewFileSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lines, err := src.Strings()
	if err != nil {
		return nil, err
	}
	return &Log{Path: path, Lines: lines}, nil
}

// LoadAll reads the given files concurrently, at most jobs at a time, and
// returns them in the order given. jobs <= 0 means one per CPU. The first
// error cancels the remaining reads.
func LoadAll(ctx context.Context, paths []string, jobs int) ([]*Log, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes its own slot
	logs := make([]*Log, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			log, err := ReadLog(path)
			if err != nil {
				return err
			}
			logs[i] = log
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}
