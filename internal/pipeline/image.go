package pipeline

import (
	"fmt"
	"net/http"
	"os"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
)

// supportedMIMETypes are the image formats the vision endpoint accepts.
// Anything else is sent as JPEG.
var supportedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func readImage(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("read image: %w: %w", domain.ErrInput, err)
	}
	if len(data) == 0 {
		return domain.Image{}, fmt.Errorf("read image %s: empty file: %w", path, domain.ErrInput)
	}

	mime := http.DetectContentType(data)
	if !supportedMIMETypes[mime] {
		mime = "image/jpeg"
	}
	return domain.Image{MIMEType: mime, Data: data}, nil
}
