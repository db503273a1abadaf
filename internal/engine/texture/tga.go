package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types this decoder understands.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

type tgaHeader struct {
	idLength    int
	colorMap    byte
	imageType   byte
	width       int
	height      int
	bytesPerPx  int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, errors.New("tga: header too short")
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		colorMap:    data[1],
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bytesPerPx:  int(data[16]) / 8,
		topToBottom: data[17]&0x20 != 0,
	}
	switch {
	case h.colorMap != 0:
		return h, errors.New("tga: color-mapped images not supported")
	case h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bytesPerPx != 3 && h.bytesPerPx != 4:
		return h, fmt.Errorf("tga: unsupported depth %d bits", data[16])
	}
	return h, nil
}

// maxPixels bounds the pixel count n payload bytes can describe. An RLE
// packet takes at least 1+bytesPerPx bytes and covers at most 128 pixels.
func (h tgaHeader) maxPixels(n int) int {
	if h.imageType == TGATypeUncompressed {
		return n / h.bytesPerPx
	}
	return n / (1 + h.bytesPerPx) * 128
}

// DecodeTGA decodes an uncompressed or RLE true-color TGA (24 or 32 bit).
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	start := tgaHeaderSize + h.idLength
	if start > len(data) {
		return nil, errTGATruncated
	}

	src := data[start:]
	if h.width*h.height > h.maxPixels(len(src)) {
		return nil, errTGATruncated
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	w := tgaWriter{img: img, h: h}

	if h.imageType == TGATypeUncompressed {
		err = w.raw(src)
	} else {
		err = w.rle(src)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// tgaWriter places BGR(A) pixels in file order into an RGBA image.
type tgaWriter struct {
	img  *image.RGBA
	h    tgaHeader
	next int
}

func (w *tgaWriter) done() bool {
	return w.next >= w.h.width*w.h.height
}

func (w *tgaWriter) put(c color.RGBA) {
	x := w.next % w.h.width
	y := w.next / w.h.width
	if !w.h.topToBottom {
		y = w.h.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.next++
}

func (w *tgaWriter) pixel(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if w.h.bytesPerPx == 4 {
		c.A = p[3]
	}
	return c
}

func (w *tgaWriter) raw(src []byte) error {
	bpp := w.h.bytesPerPx
	if len(src) < w.h.width*w.h.height*bpp {
		return errTGATruncated
	}
	for off := 0; !w.done(); off += bpp {
		w.put(w.pixel(src[off : off+bpp]))
	}
	return nil
}

func (w *tgaWriter) rle(src []byte) error {
	bpp := w.h.bytesPerPx
	off := 0
	for !w.done() {
		if off >= len(src) {
			return errTGATruncated
		}
		packet := src[off]
		off++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if off+bpp > len(src) {
				return errTGATruncated
			}
			c := w.pixel(src[off : off+bpp])
			off += bpp
			for i := 0; i < count && !w.done(); i++ {
				w.put(c)
			}
			continue
		}

		for i := 0; i < count && !w.done(); i++ {
			if off+bpp > len(src) {
				return errTGATruncated
			}
			w.put(w.pixel(src[off : off+bpp]))
			off += bpp
		}
	}
	return nil
}
