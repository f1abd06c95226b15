package aseprite

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

// Decode reads an Aseprite sprite from r and returns its first frame,
// fully composed, as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	spr, err := Load(data)
	if err != nil {
		return nil, err
	}

	width, height := spr.Size()
	pix := make([]byte, width*height*4)
	if _, err := spr.CombinedFrameImage(0, pix); err != nil {
		return nil, err
	}

	return &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// DecodeConfig returns the dimensions of an Aseprite sprite without
// decoding the entire file. The color model is always NRGBA because
// composition converts every color depth to RGBA.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var raw [12]byte

	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return image.Config{}, errors.WithStack(err)
	}

	if magic := binary.LittleEndian.Uint16(raw[4:]); magic != headerMagic {
		return image.Config{}, errors.WithStack(ErrInvalidMagic)
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(binary.LittleEndian.Uint16(raw[8:])),
		Height:     int(binary.LittleEndian.Uint16(raw[10:])),
	}, nil
}

func init() {
	image.RegisterFormat("aseprite", "????\xE0\xA5", Decode, DecodeConfig)
}
