package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

const (
	ThumbnailSize = 400
	WebSize       = 1600

	jpegQuality = 85
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Rendition уменьшенная копия исходника, уже закодированная в JPEG
type Rendition struct {
	Name string
	Data []byte
}

type Decoded struct {
	Image  image.Image
	Format string
	Width  int
	Height int
}

func Decode(r io.Reader) (Decoded, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	b := img.Bounds()
	return Decoded{Image: img, Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// Fit вписывает изображение в квадрат size x size с сохранением пропорций; меньшие не увеличивает
func Fit(img image.Image, size uint) image.Image {
	return resize.Thumbnail(size, size, img, resize.Lanczos3)
}

func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Renditions строит миниатюру и веб-версию
func Renditions(img image.Image) ([]Rendition, error) {
	sizes := []struct {
		name string
		size uint
	}{
		{name: "thumb.jpg", size: ThumbnailSize},
		{name: "web.jpg", size: WebSize},
	}

	out := make([]Rendition, 0, len(sizes))
	for _, s := range sizes {
		data, err := EncodeJPEG(Fit(img, s.size))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", s.name, err)
		}
		out = append(out, Rendition{Name: s.name, Data: data})
	}

	return out, nil
}
