package aseprite

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const headerMagic = 0xA5E0

// ColorDepth is the bits-per-pixel field of the header. Values other
// than the three known depths are carried as-is.
type ColorDepth uint16

const (
	ColorDepthIndexed   ColorDepth = 8
	ColorDepthGrayscale ColorDepth = 16
	ColorDepthRGBA      ColorDepth = 32
)

// PixelSize returns the number of bytes per pixel in a cel payload, or
// false for unknown depths.
func (d ColorDepth) PixelSize() (int, bool) {
	switch d {
	case ColorDepthRGBA:
		return 4, true
	case ColorDepthGrayscale:
		return 2, true
	case ColorDepthIndexed:
		return 1, true
	}
	return 0, false
}

func (d ColorDepth) String() string {
	switch d {
	case ColorDepthRGBA:
		return "rgba"
	case ColorDepthGrayscale:
		return "grayscale"
	case ColorDepthIndexed:
		return "indexed"
	}
	return "unknown"
}

// Header flag bits.
const (
	// HeaderFlagLayerOpacityValid marks the layer opacity field as
	// meaningful. When unset layers composite at full opacity.
	HeaderFlagLayerOpacityValid = 0x1
)

// Header is the fixed 128-byte file header.
type Header struct {
	FileSize   uint32
	FrameCount uint16
	Width      uint16
	Height     uint16
	ColorDepth ColorDepth
	Flags      uint32
	// Speed is the milliseconds between frames. Deprecated by the
	// per-frame duration field.
	Speed uint16
	// TransparentIndex is the palette entry that represents the
	// transparent color in non-background layers. Only meaningful for
	// indexed sprites.
	TransparentIndex uint8
	ColorCount       uint16
	PixelWidth       uint8
	PixelHeight      uint8
	GridX            int16
	GridY            int16
	GridWidth        uint16
	GridHeight       uint16
}

// parseHeader consumes exactly 128 bytes.
func parseHeader(raw []byte) ([]byte, Header, error) {
	rest, hdr, err := readBytes(raw, 128)
	if err != nil {
		return nil, Header{}, err
	}
	if binary.LittleEndian.Uint16(hdr[4:]) != headerMagic {
		return nil, Header{}, errors.WithStack(ErrInvalidMagic)
	}
	return rest, Header{
		FileSize:         binary.LittleEndian.Uint32(hdr),
		FrameCount:       binary.LittleEndian.Uint16(hdr[6:]),
		Width:            binary.LittleEndian.Uint16(hdr[8:]),
		Height:           binary.LittleEndian.Uint16(hdr[10:]),
		ColorDepth:       ColorDepth(binary.LittleEndian.Uint16(hdr[12:])),
		Flags:            binary.LittleEndian.Uint32(hdr[14:]),
		Speed:            binary.LittleEndian.Uint16(hdr[18:]),
		TransparentIndex: hdr[28],
		ColorCount:       binary.LittleEndian.Uint16(hdr[32:]),
		PixelWidth:       hdr[34],
		PixelHeight:      hdr[35],
		GridX:            int16(binary.LittleEndian.Uint16(hdr[36:])),
		GridY:            int16(binary.LittleEndian.Uint16(hdr[38:])),
		GridWidth:        binary.LittleEndian.Uint16(hdr[40:]),
		GridHeight:       binary.LittleEndian.Uint16(hdr[42:]),
	}, nil
}
