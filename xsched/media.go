package xsched

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MediaService groups the /media endpoints and the presigned upload flow.
type MediaService struct {
	client *Client
}

// UploadURLInput is the body of POST /media/upload-url.
type UploadURLInput struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size,omitempty"`
}

// UploadTarget is a presigned, time-limited upload destination.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Key       string `json:"key,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// UploadInput describes content to push through a presigned URL.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// GetUploadURL requests a presigned upload target.
func (s *MediaService) GetUploadURL(ctx context.Context, input UploadURLInput) (*Response[UploadTarget], error) {
	var out Response[UploadTarget]
	if err := s.client.do(ctx, http.MethodPost, "/media/upload-url", input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload requests a presigned target, PUTs the content to it and returns the
// public URL of the stored media.
func (s *MediaService) Upload(ctx context.Context, input UploadInput) (string, error) {
	if input.Body == nil {
		return "", ValidationError{Field: "upload body", Reason: "must not be nil"}
	}

	target, err := s.GetUploadURL(ctx, UploadURLInput{
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Size:        input.Size,
	})
	if err != nil {
		return "", err
	}

	if err := s.put(ctx, target.Data.UploadURL, input); err != nil {
		return "", err
	}
	return target.Data.PublicURL, nil
}

// UploadedFile describes a local file stored by UploadFile.
type UploadedFile struct {
	PublicURL   string
	ContentType string
	Size        int64
}

// UploadFile uploads a local file, resolving its content type from the
// extension or, failing that, from its first bytes.
func (s *MediaService) UploadFile(ctx context.Context, path string) (*UploadedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ValidationError{Field: "media file", Reason: fmt.Sprintf("%q not found", path)}
		}
		return nil, fmt.Errorf("open media: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat media: %w", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read media: %w", err)
	}
	contentType, err := ResolveContentType(path, head[:n])
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind media: %w", err)
	}

	publicURL, err := s.Upload(ctx, UploadInput{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Body:        file,
	})
	if err != nil {
		return nil, err
	}
	return &UploadedFile{PublicURL: publicURL, ContentType: contentType, Size: info.Size()}, nil
}

func (s *MediaService) put(parent context.Context, uploadURL string, input UploadInput) error {
	ctx, cancel := context.WithTimeout(parent, s.client.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, input.Body)
	if err != nil {
		return &APIError{Message: err.Error(), Code: CodeNetworkError, Err: err}
	}
	if input.Size > 0 {
		req.ContentLength = input.Size
	}
	req.Header.Set("Content-Type", input.ContentType)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return s.client.transportError(parent, ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Message: fmt.Sprintf("upload failed: HTTP %d", resp.StatusCode),
			Code:    CodeUploadFailed,
			Status:  resp.StatusCode,
		}
	}
	return nil
}

// ResolveContentType picks the MIME type of a media file.
func ResolveContentType(path string, head []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	case ".gif":
		return "image/gif", nil
	case ".webp":
		return "image/webp", nil
	case ".mp4":
		return "video/mp4", nil
	case ".mov":
		return "video/quicktime", nil
	case ".pdf":
		return "application/pdf", nil
	}

	// fallback to sniffing
	detected := http.DetectContentType(head)
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	switch {
	case strings.HasPrefix(detected, "image/"), strings.HasPrefix(detected, "video/"), detected == "application/pdf":
		return detected, nil
	}

	return "", ValidationError{Field: "media file", Reason: fmt.Sprintf("unsupported media type for %q", path)}
}

// MediaTypeOf maps a MIME type onto the attachment kind used in posts.
func MediaTypeOf(contentType string) MediaType {
	switch {
	case contentType == "image/gif":
		return MediaTypeGIF
	case strings.HasPrefix(contentType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaTypeVideo
	default:
		return MediaTypeDocument
	}
}
