package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"golang.org/x/time/rate"
)

// Multipart field names of the upload form.
const (
	FieldVideo             = "video"
	FieldUserBackground    = "user_background"
	FieldSubjectPreference = "subject_preference"
	FieldAuthToken         = "auth_token"
)

// ProgressFunc receives the percentage (0-100) of the video sent so far.
type ProgressFunc func(percent int)

// progressInterval bounds how often a [ProgressFunc] is called while streaming.
const progressInterval = 100 * time.Millisecond

// UploadVideo streams the video at req.Path to the processing endpoint and returns the generated result.
//
// The token check runs before the file is opened. The session is not modified on success.
func (c *Client) UploadVideo(ctx context.Context, req models.UploadVideoRequest, progress ProgressFunc) (*models.UploadResult, error) {
	token := c.store.Token()
	if token == "" {
		return nil, notAuthenticated()
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, &Error{Kind: KindInvalidFile, Message: fmt.Sprintf("Cannot read %s", req.Path), Err: shared.ErrInvalidFile, Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &Error{Kind: KindInvalidFile, Message: fmt.Sprintf("Cannot read %s", req.Path), Err: shared.ErrInvalidFile, Cause: err}
	}

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.Path)
	}
	background := req.UserBackground
	if background == "" {
		background = "general"
	}
	subject := req.SubjectPreference
	if subject == "" {
		subject = "general"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	src := newProgressReader(f, info.Size(), progress)

	var (
		wg       sync.WaitGroup
		writeErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		writeErr = writeUploadForm(mw, src, filename, req.ContentType, background, subject, token)
		if writeErr != nil {
			pw.CloseWithError(writeErr)
			return
		}
		pw.Close()
	}()

	body, err := c.do(ctx, opUpload, http.MethodPost, PathUpload, token, pr, mw.FormDataContentType())
	pr.CloseWithError(io.ErrClosedPipe)
	wg.Wait()

	if err != nil {
		var apiErr *Error
		if writeErr != nil && !errors.Is(writeErr, io.ErrClosedPipe) && errors.As(err, &apiErr) && apiErr.Kind == KindNetwork {
			return nil, &Error{Kind: KindInvalidFile, Message: opUpload.generic, Err: shared.ErrInvalidFile, Cause: writeErr}
		}
		return nil, err
	}

	src.finish()

	result, err := models.ParseUploadResult(body)
	if err != nil {
		return nil, networkError(opUpload, err)
	}
	return result, nil
}

func writeUploadForm(mw *multipart.Writer, video io.Reader, filename, contentType, background, subject, token string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldVideo, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create video part: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return fmt.Errorf("failed to stream video: %w", err)
	}

	fields := [][2]string{
		{FieldUserBackground, background},
		{FieldSubjectPreference, subject},
		{FieldAuthToken, token},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}

	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// progressReader reports read progress as a percentage, at most once per [progressInterval].
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	last    int
	fn      ProgressFunc
	limiter *rate.Limiter
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{
		r:       r,
		total:   total,
		last:    -1,
		fn:      fn,
		limiter: rate.NewLimiter(rate.Every(progressInterval), 1),
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.fn != nil && n > 0 {
		pct := p.percent()
		if pct != p.last && (pct == 100 || p.limiter.Allow()) {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}

func (p *progressReader) percent() int {
	if p.total <= 0 {
		return 100
	}
	pct := int(p.read * 100 / p.total)
	return min(pct, 100)
}

// finish reports 100% if it has not been reported yet.
func (p *progressReader) finish() {
	if p.fn != nil && p.last != 100 {
		p.last = 100
		p.fn(100)
	}
}
