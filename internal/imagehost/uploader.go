// Package imagehost uploads candidate photos to an unsigned image hosting endpoint
// and returns the public URL it assigns.
package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/config"
)

// ProgressFunc receives the transferred share of the upload as a percentage 0-100.
type ProgressFunc func(percent int)

// Uploader sends an image and returns its public URI.
type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader, size int64, progress ProgressFunc) (string, error)
}

// UploadError is returned when the host answers with a non-2xx status.
type UploadError struct {
	Status     int
	StatusText string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.Status, e.StatusText)
}

// ErrNotConfigured is returned when no upload URL is set.
var ErrNotConfigured = errors.New("image host not configured")

type httpUploader struct {
	url    string
	preset string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPUploader builds an uploader posting multipart forms (file, upload_preset).
func NewHTTPUploader(cfg config.ImageHostConfig, logger *zap.Logger) Uploader {
	return &httpUploader{
		url:    cfg.UploadURL,
		preset: cfg.UploadPreset,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

func (u *httpUploader) Upload(ctx context.Context, filename string, body io.Reader, size int64, progress ProgressFunc) (string, error) {
	if strings.TrimSpace(u.url) == "" {
		return "", ErrNotConfigured
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		err := writeForm(form, u.preset, filename, &progressReader{r: body, total: size, report: progress})
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, pr)
	if err != nil {
		_ = pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		_ = pr.Close()
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &UploadError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	uri := decoded.SecureURL
	if uri == "" {
		uri = decoded.URL
	}
	if uri == "" {
		return "", errors.New("upload response missing url")
	}

	if progress != nil {
		progress(100)
	}
	u.logger.Info("image uploaded",
		zap.String("file", filename),
		zap.Int64("bytes", size),
		zap.Duration("took", time.Since(start)))
	return uri, nil
}

func writeForm(form *multipart.Writer, preset, filename string, file io.Reader) error {
	if preset != "" {
		if err := form.WriteField("upload_preset", preset); err != nil {
			return err
		}
	}
	part, err := form.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return form.Close()
}

// progressReader reports read progress, never exceeding 99 until the host confirms.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.report != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > 99 {
			percent = 99
		}
		if percent > p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
