package extraction

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// MaxImageSize is the largest image sent inline.
const MaxImageSize = domain.DefaultExtractionMaxImageSize

// Image is a document image ready to be sent inline.
type Image struct {
	MIMEType string
	Base64   string
}

// DataURL returns the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64
}

// LoadImage reads and encodes the image at path.
func LoadImage(path string) (Image, error) {
	mime, err := MIMEType(path)
	if err != nil {
		return Image{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Image{}, fmt.Errorf("%w: read image: %w", domain.ErrExtraction, err)
	}
	if info.Size() > MaxImageSize {
		return Image{}, fmt.Errorf("%w: image %s is %d bytes (limit %d)",
			domain.ErrExtraction, filepath.Base(path), info.Size(), MaxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("%w: read image: %w", domain.ErrExtraction, err)
	}
	return Image{MIMEType: mime, Base64: base64.StdEncoding.EncodeToString(data)}, nil
}

// MIMEType maps a supported image extension to its MIME type.
func MIMEType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Base(path))
	}
}
