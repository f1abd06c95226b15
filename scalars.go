package aseprite

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// The scalar readers below consume the unread remainder of the input
// and return the remainder after the value. All multi-byte quantities
// are little-endian, matching the vendor file format.

func readBytes(raw []byte, n int) ([]byte, []byte, error) {
	if n < 0 || len(raw) < n {
		return nil, nil, errors.WithStack(ErrUnexpectedEOF)
	}
	return raw[n:], raw[:n:n], nil
}

func readByte(raw []byte) ([]byte, uint8, error) {
	if len(raw) < 1 {
		return nil, 0, errors.WithStack(ErrUnexpectedEOF)
	}
	return raw[1:], raw[0], nil
}

func readWord(raw []byte) ([]byte, uint16, error) {
	if len(raw) < 2 {
		return nil, 0, errors.WithStack(ErrUnexpectedEOF)
	}
	return raw[2:], binary.LittleEndian.Uint16(raw), nil
}

func readShort(raw []byte) ([]byte, int16, error) {
	raw, v, err := readWord(raw)
	return raw, int16(v), err
}

func readDword(raw []byte) ([]byte, uint32, error) {
	if len(raw) < 4 {
		return nil, 0, errors.WithStack(ErrUnexpectedEOF)
	}
	return raw[4:], binary.LittleEndian.Uint32(raw), nil
}

func readLong(raw []byte) ([]byte, int32, error) {
	raw, v, err := readDword(raw)
	return raw, int32(v), err
}

func readQword(raw []byte) ([]byte, uint64, error) {
	if len(raw) < 8 {
		return nil, 0, errors.WithStack(ErrUnexpectedEOF)
	}
	return raw[8:], binary.LittleEndian.Uint64(raw), nil
}

func readFloat(raw []byte) ([]byte, float32, error) {
	raw, v, err := readDword(raw)
	return raw, math.Float32frombits(v), err
}

func readDouble(raw []byte) ([]byte, float64, error) {
	raw, v, err := readQword(raw)
	return raw, math.Float64frombits(v), err
}

// Fixed is a 16.16 fixed point number, stored on disk as the low word
// followed by the high word.
type Fixed int32

// Float64 returns the fixed point value as a float.
func (f Fixed) Float64() float64 {
	return float64(f) / 65536
}

func readFixed(raw []byte) ([]byte, Fixed, error) {
	raw, v, err := readDword(raw)
	return raw, Fixed(v), err
}

// readString reads a word-length-prefixed UTF-8 string. The returned
// string owns its bytes and does not alias the input.
func readString(raw []byte) ([]byte, string, error) {
	raw, n, err := readWord(raw)
	if err != nil {
		return nil, "", err
	}
	raw, b, err := readBytes(raw, int(n))
	if err != nil {
		return nil, "", err
	}
	if !utf8.Valid(b) {
		return nil, "", errors.WithStack(ErrInvalidUTF8)
	}
	return raw, string(b), nil
}

// Color is an 8-bit non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB is an 8-bit color without alpha, used by the old palette chunks.
type RGB struct {
	R, G, B uint8
}

// Point is a position used by user data properties.
type Point struct {
	X, Y int32
}

// Size is a dimension used by user data properties.
type Size struct {
	Width, Height int32
}

// Rect is a point and a size.
type Rect struct {
	Origin Point
	Size   Size
}

// UUID is 16 raw bytes.
type UUID [16]byte

func readColor(raw []byte) ([]byte, Color, error) {
	raw, b, err := readBytes(raw, 4)
	if err != nil {
		return nil, Color{}, err
	}
	return raw, Color{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

func readRGB(raw []byte) ([]byte, RGB, error) {
	raw, b, err := readBytes(raw, 3)
	if err != nil {
		return nil, RGB{}, err
	}
	return raw, RGB{R: b[0], G: b[1], B: b[2]}, nil
}

func readPoint(raw []byte) ([]byte, Point, error) {
	raw, x, err := readLong(raw)
	if err != nil {
		return nil, Point{}, err
	}
	raw, y, err := readLong(raw)
	if err != nil {
		return nil, Point{}, err
	}
	return raw, Point{X: x, Y: y}, nil
}

func readSizeValue(raw []byte) ([]byte, Size, error) {
	raw, w, err := readLong(raw)
	if err != nil {
		return nil, Size{}, err
	}
	raw, h, err := readLong(raw)
	if err != nil {
		return nil, Size{}, err
	}
	return raw, Size{Width: w, Height: h}, nil
}

func readRect(raw []byte) ([]byte, Rect, error) {
	raw, origin, err := readPoint(raw)
	if err != nil {
		return nil, Rect{}, err
	}
	raw, size, err := readSizeValue(raw)
	if err != nil {
		return nil, Rect{}, err
	}
	return raw, Rect{Origin: origin, Size: size}, nil
}

func readUUID(raw []byte) ([]byte, UUID, error) {
	raw, b, err := readBytes(raw, 16)
	if err != nil {
		return nil, UUID{}, err
	}
	var u UUID
	copy(u[:], b)
	return raw, u, nil
}

// readDwordAsInt reads a size DWORD and converts it to int, failing on
// platforms too small to hold it.
func readDwordAsInt(raw []byte) ([]byte, int, error) {
	raw, v, err := readDword(raw)
	if err != nil {
		return nil, 0, err
	}
	if uint64(v) > uint64(math.MaxInt) {
		return nil, 0, errors.WithStack(&SizeConversionError{Size: v})
	}
	return raw, int(v), nil
}

// readDwordSize reads a frame or chunk size, which includes its own
// four size bytes and therefore must be at least 4.
func readDwordSize(raw []byte, invalid func(uint32) error) ([]byte, int, error) {
	raw, v, err := readDword(raw)
	if err != nil {
		return nil, 0, err
	}
	if v < 4 {
		return nil, 0, errors.WithStack(invalid(v))
	}
	if uint64(v) > uint64(math.MaxInt) {
		return nil, 0, errors.WithStack(&SizeConversionError{Size: v})
	}
	return raw, int(v), nil
}
