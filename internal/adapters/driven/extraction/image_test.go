package extraction

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

func TestMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.png":  "image/png",
		"a.PNG":  "image/png",
		"a.jpg":  "image/jpeg",
		"a.JPEG": "image/jpeg",
	}
	for path, want := range tests {
		got, err := MIMEType(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := MIMEType("a.pdf")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpegbytes")), img.Base64)
	assert.Equal(t, "data:image/jpeg;base64,"+img.Base64, img.DataURL())
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "gone.png"))
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}
