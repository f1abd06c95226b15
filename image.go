package aseprite

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// decompress inflates a ZLIB cel payload into target, which must be
// sized to exactly the expected pixel data length. The stream must end
// precisely at that length; a short stream or extra output is
// corruption.
func decompress(data, target []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(ErrDecompress, err.Error())
	}
	defer zr.Close()
	if _, err := io.ReadFull(zr, target); err != nil {
		return errors.Wrap(ErrDecompress, err.Error())
	}
	var tail [1]byte
	if n, err := zr.Read(tail[:]); n != 0 || (err != nil && err != io.EOF) {
		return errors.Wrap(ErrDecompress, "stream longer than expected")
	}
	return nil
}

// grayscaleToRGBA expands value+alpha pairs into RGBA.
func grayscaleToRGBA(source, target []byte) error {
	if len(target) != len(source)*2 {
		return errors.WithStack(ErrInvalidImageData)
	}
	for i := 0; i+1 < len(source); i += 2 {
		v, a := source[i], source[i+1]
		j := i * 2
		target[j] = v
		target[j+1] = v
		target[j+2] = v
		target[j+3] = a
	}
	return nil
}

// indexedToRGBA looks every pixel up in the palette.
func indexedToRGBA(source []byte, palette *Palette, target []byte) error {
	if len(target) != len(source)*4 {
		return errors.WithStack(ErrInvalidImageData)
	}
	for i, px := range source {
		c := palette.Colors[px]
		j := i * 4
		target[j] = c.R
		target[j+1] = c.G
		target[j+2] = c.B
		target[j+3] = c.A
	}
	return nil
}
