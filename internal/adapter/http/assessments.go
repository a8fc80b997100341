package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
	"github.com/couchcryptid/disaster-response-service/internal/render"
)

const (
	uploadField = "image"
	// multipartOverhead leaves room for boundaries and part headers on top
	// of the image itself.
	multipartOverhead = 1 << 20
	sniffLen          = 512
)

// acceptedUploads maps sniffed content types to temp file extensions.
var acceptedUploads = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type assessmentResponse struct {
	*domain.Assessment
	ReportMarkdown string `json:"report_markdown"`
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("image exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("multipart field %q is required", uploadField))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll() //nolint:errcheck // best-effort cleanup of spooled parts
	}

	if header.Size > s.maxUpload {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("image exceeds %d bytes", s.maxUpload))
		return
	}

	path, status, err := s.spool(file)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("remove upload failed", "path", path, "error", err)
		}
	}()

	a, err := s.assessor.Run(r.Context(), path)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, assessmentResponse{
		Assessment:     a,
		ReportMarkdown: render.Report(a, domain.Now()),
	})
}

// spool copies an upload to a temp file after checking its content type.
// The caller removes the returned path.
func (s *Server) spool(file io.Reader) (string, int, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", http.StatusBadRequest, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	ext := ".img"
	if n > 0 {
		var ok bool
		ext, ok = acceptedUploads[http.DetectContentType(head)]
		if !ok {
			return "", http.StatusBadRequest, errors.New("image must be a JPEG or PNG")
		}
	}

	tmp, err := os.CreateTemp("", "assessment-*"+ext)
	if err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	_, copyErr := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), file))
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return "", http.StatusInternalServerError, fmt.Errorf("write temp file: %w", err)
	}
	return path, 0, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInput):
		return http.StatusUnprocessableEntity
	// Timed-out model calls also wrap ErrInference.
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrInference), errors.Is(err, domain.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
