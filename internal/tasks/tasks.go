package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/services"
	"github.com/desertthunder/surf/internal/session"
	"github.com/desertthunder/surf/internal/shared"
)

// Uploader sends a video to the backend. Implemented by [services.Client].
type Uploader interface {
	UploadVideo(ctx context.Context, req models.UploadVideoRequest, progress services.ProgressFunc) (*models.UploadResult, error)
}

// HistoryRecorder persists upload attempts. Implemented by repositories.UploadRepository.
type HistoryRecorder interface {
	Create(upload *models.Upload) error
	Update(upload *models.Upload) error
}

// Callbacks observe one upload. Each field is optional.
//
// OnStart fires before any network I/O; exactly one of OnComplete or OnError fires at the end.
type Callbacks struct {
	OnStart    func()
	OnProgress func(percent int)
	OnComplete func(result *models.UploadResult)
	OnError    func(msg string)
}

func (c Callbacks) start() {
	if c.OnStart != nil {
		c.OnStart()
	}
}

func (c Callbacks) progress(pct int) {
	if c.OnProgress != nil {
		c.OnProgress(pct)
	}
}

func (c Callbacks) complete(r *models.UploadResult) {
	if c.OnComplete != nil {
		c.OnComplete(r)
	}
}

func (c Callbacks) fail(msg string) {
	if c.OnError != nil {
		c.OnError(msg)
	}
}

// WorkflowOpts configures an [UploadWorkflow].
type WorkflowOpts struct {
	Uploader  Uploader
	Store     session.Store
	History   HistoryRecorder // optional
	Navigator shared.Navigator
	Logger    *log.Logger
}

// UploadWorkflow validates a file, uploads it and reports the lifecycle through [Callbacks].
//
// The workflow does not prevent concurrent uploads; callers track their own busy state.
type UploadWorkflow struct {
	uploader Uploader
	store    session.Store
	history  HistoryRecorder
	nav      shared.Navigator
	logger   *log.Logger
}

// NewUploadWorkflow creates an [UploadWorkflow].
func NewUploadWorkflow(opts WorkflowOpts) *UploadWorkflow {
	if opts.Navigator == nil {
		opts.Navigator = shared.NopNavigator{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	return &UploadWorkflow{
		uploader: opts.Uploader,
		store:    opts.Store,
		history:  opts.History,
		nav:      opts.Navigator,
		logger:   opts.Logger,
	}
}

// Upload runs the workflow for the file at path.
//
// The returned error mirrors the message passed to OnError. Progress updates are sent to progress
// without blocking; progress may be nil.
func (w *UploadWorkflow) Upload(ctx context.Context, path string, cb Callbacks, progress chan<- ProgressUpdate) (*models.UploadResult, error) {
	result, err := w.upload(ctx, path, cb, progress)
	if err != nil {
		return nil, err
	}
	w.saveLastResult(result.Raw)
	return result, nil
}

// upload runs the workflow without touching the session's last result.
func (w *UploadWorkflow) upload(ctx context.Context, path string, cb Callbacks, progress chan<- ProgressUpdate) (*models.UploadResult, error) {
	info, err := InspectFile(path)
	if err != nil {
		msg := fmt.Sprintf("Cannot read %s", path)
		sendProgress(progress, failedUpdate(msg))
		cb.fail(msg)
		return nil, err
	}
	sendProgress(progress, validateUpdate(info))

	if v := ValidateFile(info); !v.Valid {
		sendProgress(progress, failedUpdate(v.Error))
		cb.fail(v.Error)
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidFile, v.Error)
	}

	profile := w.store.Profile()
	if profile == nil {
		sendProgress(progress, failedUpdate(MsgUserNotFound))
		cb.fail(MsgUserNotFound)
		w.nav.Navigate(shared.RouteSignin)
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, MsgUserNotFound)
	}

	if w.uploader == nil {
		cb.fail(MsgUploadFailed)
		return nil, fmt.Errorf("%w: uploader not configured", shared.ErrServiceUnavailable)
	}

	cb.start()

	record := models.NewUpload(profile.Username, info.Name, info.ContentType, info.Size)
	w.recordCreate(record)

	req := models.UploadVideoRequest{
		Path:              info.Path,
		Filename:          info.Name,
		ContentType:       info.ContentType,
		UserBackground:    models.UserBackground(profile.Major),
		SubjectPreference: models.SubjectPreference(profile.Major),
	}

	w.logger.Info("uploading video", "file", info.Name, "size", info.HumanSize(), "type", info.ContentType)

	result, err := w.uploader.UploadVideo(ctx, req, func(pct int) {
		cb.progress(pct)
		sendProgress(progress, uploadUpdate(pct))
		if pct == 100 {
			sendProgress(progress, processUpdate())
		}
	})
	if err != nil {
		msg := errorMessage(err)
		w.logger.Error("upload failed", "file", info.Name, "error", err)

		if record.ID() != "" {
			record.Fail(msg)
			w.recordUpdate(record)
		}
		sendProgress(progress, failedUpdate(msg))
		cb.fail(msg)

		if errors.Is(err, shared.ErrAuthExpired) {
			w.nav.Navigate(shared.RouteSignin)
		}
		return nil, err
	}

	if len(result.Raw) > 0 && record.ID() != "" {
		record.Complete(result.Raw)
		w.recordUpdate(record)
	}

	sendProgress(progress, completeUpdate(result))
	cb.complete(result)
	return result, nil
}

func (w *UploadWorkflow) saveLastResult(raw []byte) {
	if len(raw) == 0 {
		return
	}
	if err := w.store.SaveLastResult(raw); err != nil {
		w.logger.Warn("failed to store upload result", "error", err)
	}
}

func (w *UploadWorkflow) recordCreate(u *models.Upload) {
	if w.history == nil {
		return
	}
	if err := w.history.Create(u); err != nil {
		w.logger.Warn("failed to record upload", "error", err)
	}
}

func (w *UploadWorkflow) recordUpdate(u *models.Upload) {
	if w.history == nil {
		return
	}
	if err := w.history.Update(u); err != nil {
		w.logger.Warn("failed to update upload record", "id", u.ID(), "error", err)
	}
}

// errorMessage returns the user-facing text of an upload failure.
func errorMessage(err error) string {
	var apiErr *services.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.Canceled) {
		return "Upload canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Upload timed out"
	}
	return MsgUploadFailed
}
