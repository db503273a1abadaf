// Package texture holds decoded card images and their GPU handles.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"path"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
	"golang.org/x/image/draw"
)

// Texture is a decoded image ready for upload.
// ID is zero until Upload has run on the render thread.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels *image.RGBA
	ID     uint32
}

// Aspect returns width / height, or zero for an empty image.
func (t *Texture) Aspect() float64 {
	if t.Height == 0 {
		return 0
	}
	return float64(t.Width) / float64(t.Height)
}

// Decode turns encoded image bytes into a Texture. The format is taken from
// the file extension for TGA (which has no magic number) and sniffed otherwise.
func Decode(name string, data []byte) (*Texture, error) {
	var img image.Image
	var err error
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	rgba := ToRGBA(img, true)
	return &Texture{
		Name:   name,
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
		Pixels: rgba,
	}, nil
}

// ToRGBA converts img to a zero-origin RGBA image. With flipY the rows are
// stored bottom-up, which is the order OpenGL expects for texture uploads.
func ToRGBA(img image.Image, flipY bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if flipY {
		flipRows(rgba)
	}
	return rgba
}

func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Bounds().Dx()*4)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+len(row)]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+len(row)]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
