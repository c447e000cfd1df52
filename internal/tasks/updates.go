package tasks

import (
	"fmt"

	"github.com/desertthunder/surf/internal/models"
)

// ProgressUpdate represents a progress event during an upload.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	Upload
	Process
	Complete
	Failed
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Upload:
		return "upload"
	case Process:
		return "process"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func validateUpdate(info FileInfo) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Validating %s (%s, %s)...", info.Name, info.ContentType, info.HumanSize()),
		Data:    info,
	}
}

func uploadUpdate(percent int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		Step:    percent,
		Total:   100,
		Message: fmt.Sprintf("Uploading... %d%%", percent),
	}
}

func processUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Process,
		Step:    1,
		Total:   1,
		Message: "Processing video and generating learning content...",
	}
}

func completeUpdate(result *models.UploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: "Content ready",
		Data:    result,
	}
}

func failedUpdate(msg string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    1,
		Total:   1,
		Message: msg,
	}
}

func bulkUploadUpdate(step, total int, res BulkUploadItem) ProgressUpdate {
	if res.Error != "" {
		return ProgressUpdate{
			Phase:   Failed,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Filename, res.Error),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   Complete,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Filename),
		Data:    res,
	}
}
