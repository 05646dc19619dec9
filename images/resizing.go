package images

import (
	"bytes"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Resized is the output of a resize along with the factors that map
// coordinates in the source image onto the resized one.
type Resized struct {
	Image  image.Image
	ScaleX float32
	ScaleY float32
}

// ResizeImage resizes img to exactly width x height.
//
// Arguments:
//   - img: The source image.
//   - width: The target width in pixels.
//   - height: The target height in pixels.
//
// Returns:
//   - Resized: The resized image and the x/y scale factors.
//   - error: An error if the input is empty or the dimensions are invalid.
func ResizeImage(img image.Image, width, height int) (Resized, error) {
	if img == nil {
		return Resized{}, errors.New("image is nil")
	}
	if width <= 0 || height <= 0 {
		return Resized{}, errors.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return Resized{}, errors.New("image has no pixels")
	}

	return Resized{
		Image:  resize.Resize(uint(width), uint(height), img, resize.Bilinear),
		ScaleX: float32(width) / float32(src.Dx()),
		ScaleY: float32(height) / float32(src.Dy()),
	}, nil
}

// ResizeBytes decodes a JPEG or PNG payload and resizes it.
func ResizeBytes(data []byte, width, height int) (Resized, error) {
	if len(data) == 0 {
		return Resized{}, errors.New("empty image data")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Resized{}, errors.Wrap(err, "image decoding failed")
	}
	return ResizeImage(img, width, height)
}
