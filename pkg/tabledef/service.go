package tabledef

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/tabledef/tabledef-go/pkg/tabledef/cache"
	"github.com/tabledef/tabledef-go/pkg/tabledef/config"
	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
	"github.com/tabledef/tabledef-go/pkg/tabledef/parser"
	"github.com/tabledef/tabledef-go/pkg/tabledef/pool"
	"github.com/tabledef/tabledef-go/pkg/tabledef/tasks"
)

// Service ties the parsing engine, worker pool, result cache and task
// manager together. One instance is created at startup and injected into
// request handlers; all mutation goes through its methods.
type Service struct {
	cfg   config.Config
	pool  *pool.Pool
	cache *cache.Cache
	tasks *tasks.Manager

	// hashGroup collapses concurrent content-hash computations per path.
	hashGroup singleflight.Group
}

// NewService builds a service from the given configuration.
func NewService(cfg config.Config) *Service {
	s := &Service{cfg: cfg}
	s.cache = cache.New(cache.Config{
		TTL:            cfg.Cache.TTL,
		MaxEntries:     cfg.Cache.MaxEntries,
		MaxTotalBytes:  cfg.Cache.MaxTotalBytes,
		MaxBundleBytes: cfg.Cache.MaxBundleBytes,
	})
	s.pool = pool.New(pool.Config{
		Size:      cfg.Pool.Size,
		QueueSize: cfg.Pool.QueueSize,
		Timeout:   cfg.Pool.Timeout,
		Disabled:  cfg.Pool.Disabled,
	}, pool.ExecutorFunc(executeRequest))
	s.tasks = tasks.NewManager(tasks.Config{
		Workers:      cfg.Tasks.Workers,
		MaxQueue:     cfg.Tasks.MaxQueue,
		StalePending: cfg.Tasks.StalePending,
		Retention:    cfg.Tasks.Retention,
	})
	return s
}

// Shutdown stops the pool and the task manager. Queued and in-flight
// pool jobs are rejected; there is no graceful drain.
func (s *Service) Shutdown() {
	s.pool.Shutdown()
	s.tasks.Close()
	s.cache.Purge()
}

// executeRequest is the pool executor: it routes each request kind to
// the parsing engine.
func executeRequest(req pool.Request) pool.Response {
	switch req.Kind {
	case pool.KindListSheets:
		sheets, err := parser.ListSheets(req.Path)
		return pool.Response{Sheets: sheets, Err: err}
	case pool.KindParseTableDefinitions, pool.KindParseWorkbookBundle:
		bundle, err := parser.BuildBundle(req.Path, req.Options)
		return pool.Response{Bundle: bundle, Err: err}
	case pool.KindParseSheetRegion:
		tables, err := parser.ParseSheetRegion(req.Path, req.SheetName, req.Region, req.Options)
		return pool.Response{Tables: tables, Err: err}
	case pool.KindBuildSearchIndex:
		bundle, err := parser.BuildBundle(req.Path, req.Options)
		if err != nil {
			return pool.Response{Err: err}
		}
		return pool.Response{Index: bundle.SearchIndex}
	default:
		return pool.Response{Err: fmt.Errorf("unknown request kind %q", req.Kind)}
	}
}

// contentKey resolves the content identity of path: the caller's hint if
// provided, otherwise a singleflight SHA-256 of the file, degrading to
// the stat-based key when the file cannot be read.
func (s *Service) contentKey(path, hashHint string) string {
	if hashHint != "" {
		return hashHint
	}
	v, err, _ := s.hashGroup.Do(path, func() (interface{}, error) {
		return cache.HashFile(path)
	})
	if err == nil {
		return v.(string)
	}
	if key, err := cache.FallbackKey(path); err == nil {
		return key
	}
	return "path:" + path
}

// Parse returns the workbook bundle for path, serving from the result
// cache when possible and otherwise dispatching the parse through the
// worker pool off the caller's request path.
func (s *Service) Parse(ctx context.Context, path string, opts ParseOptions, hashHint string) (*models.WorkbookBundle, error) {
	key := cache.Key(s.contentKey(path, hashHint), opts)

	if bundle, ok := s.cache.Get(key); ok {
		slog.Debug("bundle served from cache", "path", path)
		return bundle, nil
	}

	resp, err := s.pool.Submit(ctx, pool.Request{
		Kind:    pool.KindParseWorkbookBundle,
		Path:    path,
		Options: opts,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, resp.Bundle)
	return resp.Bundle, nil
}

// ListSheets returns the sheet names of the workbook at path.
func (s *Service) ListSheets(ctx context.Context, path string) ([]string, error) {
	resp, err := s.pool.Submit(ctx, pool.Request{Kind: pool.KindListSheets, Path: path})
	if err != nil {
		return nil, err
	}
	return resp.Sheets, nil
}

// ParseSheetRegion re-parses one rectangle of one sheet with the
// fully-featured read mode. Results are not cached: region parses are
// interactive one-offs.
func (s *Service) ParseSheetRegion(ctx context.Context, path, sheetName string, region Region, opts ParseOptions) ([]models.TableInfo, error) {
	resp, err := s.pool.Submit(ctx, pool.Request{
		Kind:      pool.KindParseSheetRegion,
		Path:      path,
		SheetName: sheetName,
		Region:    region,
		Options:   opts,
	})
	if err != nil {
		return nil, err
	}
	return resp.Tables, nil
}

// BuildSearchIndex returns the token index for path, reusing a cached
// bundle when one exists.
func (s *Service) BuildSearchIndex(ctx context.Context, path string, opts ParseOptions) (*models.SearchIndex, error) {
	bundle, err := s.Parse(ctx, path, opts, "")
	if err != nil {
		return nil, err
	}
	return bundle.SearchIndex, nil
}

// SubmitParseTask queues an asynchronous parse of path. Concurrent
// submissions for the same path and options share one task.
func (s *Service) SubmitParseTask(path string, opts ParseOptions) (*tasks.Task, error) {
	dedupeKey := "parse\x00" + path + "\x00" + parser.CanonicalKey(opts)
	return s.tasks.Submit(tasks.TypeParseWorkbook, path, dedupeKey, func(ctx context.Context, report func(int)) (any, error) {
		report(10)
		bundle, err := s.Parse(ctx, path, opts, "")
		report(100)
		return bundle, err
	})
}

// SubmitHashTask queues an asynchronous content hash of path.
func (s *Service) SubmitHashTask(path string) (*tasks.Task, error) {
	return s.tasks.Submit(tasks.TypeHashFile, path, "hash\x00"+path, func(ctx context.Context, report func(int)) (any, error) {
		return cache.HashFile(path)
	})
}

// Tasks exposes the task manager for handle lookup and snapshots.
func (s *Service) Tasks() *tasks.Manager {
	return s.tasks
}
