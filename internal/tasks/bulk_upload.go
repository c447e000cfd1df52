package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/surf/internal/shared"
	"golang.org/x/time/rate"
)

// BulkUploadOpts contains configuration for uploading several videos.
type BulkUploadOpts struct {
	NumWorkers   int     // Concurrent uploads (default: 2, max: 4)
	RateLimit    float64 // Upload starts per second (default: 1)
	ManifestPath string  // Optional JSON summary written when all uploads finish
}

// BulkUploadItem is the outcome of one file in a bulk upload.
type BulkUploadItem struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Status   string `json:"status,omitempty"`

	raw []byte
}

// BulkUploadResult summarizes a bulk upload.
type BulkUploadResult struct {
	Total        int              `json:"total"`
	Successful   int              `json:"successful"`
	Failed       int              `json:"failed"`
	Items        []BulkUploadItem `json:"items"`
	ManifestPath string           `json:"-"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// BulkUpload uploads several files with a bounded worker pool.
//
// Each file goes through the single upload workflow; a failing file does not stop the others.
// Items are reported in completion order. Once every worker is done, the result of the last
// successful path in input order becomes the session's last result.
func (w *UploadWorkflow) BulkUpload(ctx context.Context, prog chan<- ProgressUpdate, paths []string, opts BulkUploadOpts) (*BulkUploadResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files to upload", shared.ErrMissingArgument)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 4 {
		opts.NumWorkers = 4
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1.0
	}

	result := &BulkUploadResult{
		Total:     len(paths),
		Items:     make([]BulkUploadItem, 0, len(paths)),
		StartedAt: time.Now().UTC(),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan string, len(paths))
	results := make(chan BulkUploadItem, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go w.uploadWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- p
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	byPath := make(map[string][]byte, len(paths))
	for item := range results {
		completed++
		if item.Success {
			byPath[item.Path] = item.raw
		}
		result.Items = append(result.Items, item)
		if item.Success {
			result.Successful++
		} else {
			result.Failed++
		}
		sendProgress(prog, bulkUploadUpdate(completed, len(paths), item))
	}
	result.FinishedAt = time.Now().UTC()

	for i := len(paths) - 1; i >= 0; i-- {
		if raw := byPath[paths[i]]; len(raw) > 0 {
			w.saveLastResult(raw)
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.ManifestPath != "" {
		data, err := shared.MarshalJSON(result, true)
		if err != nil {
			return result, fmt.Errorf("failed to encode manifest: %w", err)
		}
		if err := shared.WriteFileAtomic(opts.ManifestPath, data, 0644); err != nil {
			return result, fmt.Errorf("uploads completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = opts.ManifestPath
	}
	return result, nil
}

// uploadWorker runs uploads from the jobs channel until it is closed.
func (w *UploadWorkflow) uploadWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan string, results chan<- BulkUploadItem) {
	defer wg.Done()

	for path := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item := BulkUploadItem{Path: path, Filename: filepath.Base(path)}
		res, err := w.upload(ctx, path, Callbacks{OnError: func(msg string) { item.Error = msg }}, nil)
		if err == nil {
			item.Success = true
			item.Status = res.Status
			item.raw = res.Raw
		} else if item.Error == "" {
			item.Error = err.Error()
		}
		results <- item
	}
}
