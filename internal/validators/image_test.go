package validators_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley-server/internal/validators"
)

func TestValidateImageExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "png", filename: "icon.png"},
		{name: "jpeg", filename: "icon.jpeg"},
		{name: "jpg", filename: "icon.jpg"},
		{name: "gif", filename: "icon.gif"},
		{name: "uppercase extension", filename: "ICON.PNG"},
		{name: "mixed case extension", filename: "icon.JpG"},
		{name: "dotted name keeps last extension", filename: "my.icon.v2.gif"},
		{name: "svg rejected", filename: "icon.svg", wantErr: true},
		{name: "webp rejected", filename: "icon.webp", wantErr: true},
		{name: "no extension", filename: "icon", wantErr: true},
		{name: "trailing dot", filename: "icon.", wantErr: true},
		{name: "empty filename", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validators.ValidateImageExtension(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, validators.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func encodePNG(t *testing.T, width, height int) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func encodeJPEG(t *testing.T, width, height int) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return &buf
}

func encodeGIF(t *testing.T, width, height int) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{color.Black, color.White})
	require.NoError(t, gif.Encode(&buf, img, nil))
	return &buf
}

func TestValidateIconImageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reader  func(*testing.T) io.Reader
		wantErr bool
	}{
		{
			name:   "nil reader passes",
			reader: func(*testing.T) io.Reader { return nil },
		},
		{
			name:   "small png",
			reader: func(t *testing.T) io.Reader { return encodePNG(t, 16, 16) },
		},
		{
			name:   "png at the 70x70 limit",
			reader: func(t *testing.T) io.Reader { return encodePNG(t, 70, 70) },
		},
		{
			name:   "gif within limit",
			reader: func(t *testing.T) io.Reader { return encodeGIF(t, 32, 32) },
		},
		{
			name:   "jpeg within limit",
			reader: func(t *testing.T) io.Reader { return encodeJPEG(t, 64, 48) },
		},
		{
			name:    "png one pixel too wide",
			reader:  func(t *testing.T) io.Reader { return encodePNG(t, 71, 70) },
			wantErr: true,
		},
		{
			name:    "png one pixel too tall",
			reader:  func(t *testing.T) io.Reader { return encodePNG(t, 70, 71) },
			wantErr: true,
		},
		{
			name:    "large gif",
			reader:  func(t *testing.T) io.Reader { return encodeGIF(t, 128, 128) },
			wantErr: true,
		},
		{
			name:    "large jpeg",
			reader:  func(t *testing.T) io.Reader { return encodeJPEG(t, 512, 512) },
			wantErr: true,
		},
		{
			name:    "undecodable data",
			reader:  func(*testing.T) io.Reader { return strings.NewReader("this is not an image") },
			wantErr: true,
		},
		{
			name:    "empty data",
			reader:  func(*testing.T) io.Reader { return strings.NewReader("") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validators.ValidateIconImageSize(tt.reader(t))
			if tt.wantErr {
				assert.ErrorIs(t, err, validators.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
