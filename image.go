package carvers

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/esimov/carvers/utils"
)

// SupportedExtensions lists the file extensions the codecs can write.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}

// Decode reads an image and converts it to a raster. EXIF orientation is applied.
func Decode(r io.Reader) (*Raster, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the source image")
	}
	return FromImage(img), nil
}

// FormatOf returns the encoding format implied by a file name, e.g. "png".
func FormatOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Encode writes the image in the requested format. The empty format encodes a jpeg.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "gif":
		return imaging.Encode(w, img, imaging.GIF)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return errors.Errorf("unsupported image format %q", format)
}

// LoadMask decodes a mask image file and fits it to a width x height raster.
func LoadMask(path string, width, height int) (*Mask, error) {
	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the mask file")
	}
	if !strings.Contains(ctype, "image") {
		return nil, errors.New("the mask should be an image file")
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the mask file")
	}
	return MaskFromImage(img, width, height), nil
}
