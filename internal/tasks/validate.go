package tasks

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertthunder/surf/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxVideoSize is the largest accepted upload, 500 MiB.
const MaxVideoSize int64 = 500 * 1024 * 1024

// Validation messages shown to the user.
const (
	MsgFileTooLarge = "File size must be less than 500MB"
	MsgInvalidType  = "Please upload a valid video file (MP4, AVI, MOV)"
	MsgUserNotFound = "User information not found. Please sign in again."
	MsgUploadFailed = "Failed to upload video"
)

// AllowedVideoTypes lists the MIME types accepted for upload.
var AllowedVideoTypes = []string{
	"video/mp4",
	"video/avi",
	"video/mov",
	"video/quicktime",
	"video/x-msvideo",
}

// extTypes resolves container types the system MIME table may not know.
var extTypes = map[string]string{
	".mp4": "video/mp4",
	".m4v": "video/mp4",
	".avi": "video/x-msvideo",
	".mov": "video/quicktime",
}

// FileInfo describes a local file selected for upload.
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// HumanSize formats Size with IEC units.
func (f FileInfo) HumanSize() string {
	return humanize.IBytes(uint64(max(f.Size, 0)))
}

// ValidationResult is the outcome of [ValidateFile]. Error is set when Valid is false.
type ValidationResult struct {
	Valid bool
	Error string
}

// ValidateFile checks size before type. It performs no I/O.
func ValidateFile(f FileInfo) ValidationResult {
	if f.Size > MaxVideoSize {
		return ValidationResult{Valid: false, Error: MsgFileTooLarge}
	}
	if !slices.Contains(AllowedVideoTypes, f.ContentType) {
		return ValidationResult{Valid: false, Error: MsgInvalidType}
	}
	return ValidationResult{Valid: true}
}

// InspectFile stats path and detects its MIME type.
//
// Content sniffing wins when it recognizes an allowed video type; otherwise the file extension decides.
func InspectFile(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %v", shared.ErrInvalidFile, err)
	}
	if st.IsDir() {
		return FileInfo{}, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidFile, path)
	}

	info := FileInfo{
		Path: path,
		Name: filepath.Base(path),
		Size: st.Size(),
	}

	if mt, err := mimetype.DetectFile(path); err == nil {
		for _, allowed := range AllowedVideoTypes {
			if mt.Is(allowed) {
				info.ContentType = allowed
				return info, nil
			}
		}
		if !mt.Is("application/octet-stream") && !mt.Is("text/plain") {
			info.ContentType = mt.String()
		}
	}

	if ct := typeByExtension(path); ct != "" {
		info.ContentType = ct
	}
	if info.ContentType == "" {
		info.ContentType = "application/octet-stream"
	}
	return info, nil
}

func typeByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if ct, ok := extTypes[ext]; ok {
		return ct
	}
	ct := mime.TypeByExtension(ext)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
