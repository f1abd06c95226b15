package aseprite

import (
	"image/color"

	"github.com/pkg/errors"
)

// ScaleOldPalette64 controls how colors of the six-bit old palette
// chunk (0x0011) are interpreted. The vendor spec documents a 0-63
// range per channel, but Aseprite's own reader treats 0x0004 and
// 0x0011 identically and assumes 0-255. The default follows Aseprite;
// setting this to true scales 0x0011 channels by 255/63 instead.
var ScaleOldPalette64 = false

// Palette is the fixed 256-entry color table of the sprite.
type Palette struct {
	Colors [256]Color
}

// NRGBA returns the palette entry at index i as a stdlib color.
func (p *Palette) NRGBA(i uint8) color.NRGBA {
	c := p.Colors[i]
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// PaletteEntry is one color of the modern palette chunk.
type PaletteEntry struct {
	Color Color
	// Name is only meaningful when HasName is true. Aseprite rarely
	// writes named entries.
	Name    string
	HasName bool
}

// PaletteChunk is the modern palette chunk (0x2019).
type PaletteChunk struct {
	// First and Last bound the palette indices written by Entries,
	// inclusive.
	First, Last uint8
	Entries     []PaletteEntry
}

func (*PaletteChunk) aseChunk() {}

// OldPaletteChunk is one of the deprecated palette chunks. Both codes
// share a layout and differ only in their documented channel range.
type OldPaletteChunk struct {
	Code    uint16
	Packets []OldPalettePacket
}

func (*OldPaletteChunk) aseChunk() {}

// OldPalettePacket is a run of colors at an offset from the previous
// packet.
type OldPalettePacket struct {
	Skip   uint8
	Colors []RGB
}

const paletteEntryHasName = 0x1

func parsePaletteChunk(raw []byte) (*PaletteChunk, error) {
	raw, size, err := readDwordAsInt(raw)
	if err != nil {
		return nil, err
	}
	raw, first, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	if first > 255 {
		return nil, errors.WithStack(ErrFirstColorIndexOutOfBounds)
	}
	raw, last, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	if last > 255 {
		return nil, errors.WithStack(ErrLastColorIndexOutOfBounds)
	}
	if first > last {
		return nil, errors.WithStack(ErrFirstColorIndexGreaterThanLast)
	}
	raw, _, err = readBytes(raw, 8)
	if err != nil {
		return nil, err
	}
	entries := make([]PaletteEntry, size)
	for i := range entries {
		var flags uint16
		raw, flags, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		raw, entries[i].Color, err = readColor(raw)
		if err != nil {
			return nil, err
		}
		if flags&paletteEntryHasName != 0 {
			raw, entries[i].Name, err = readString(raw)
			if err != nil {
				return nil, err
			}
			entries[i].HasName = true
		}
	}
	return &PaletteChunk{
		First:   uint8(first),
		Last:    uint8(last),
		Entries: entries,
	}, nil
}

func parseOldPaletteChunk(code uint16, raw []byte) (*OldPaletteChunk, error) {
	raw, count, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	packets := make([]OldPalettePacket, count)
	for i := range packets {
		raw, packets[i].Skip, err = readByte(raw)
		if err != nil {
			return nil, err
		}
		var n uint8
		raw, n, err = readByte(raw)
		if err != nil {
			return nil, err
		}
		colors := int(n)
		if colors == 0 {
			colors = 256
		}
		packets[i].Colors = make([]RGB, colors)
		for j := range packets[i].Colors {
			raw, packets[i].Colors[j], err = readRGB(raw)
			if err != nil {
				return nil, err
			}
		}
	}
	return &OldPaletteChunk{Code: code, Packets: packets}, nil
}

// buildPalette applies the palette chunks of all frames. The modern
// chunk wins when present; otherwise the 0x0004 packets are used, and
// 0x0011 only as a last resort. Returns nil when the file carries no
// palette chunks at all.
func buildPalette(hdr *Header, frames []rawFrame) (*Palette, error) {
	var modern []*PaletteChunk
	var old256 []*OldPaletteChunk
	var old64 []*OldPaletteChunk
	for _, frame := range frames {
		for _, chunk := range frame.chunks {
			switch c := chunk.(type) {
			case *PaletteChunk:
				modern = append(modern, c)
			case *OldPaletteChunk:
				if c.Code == chunkOldPalette256 {
					old256 = append(old256, c)
				} else {
					old64 = append(old64, c)
				}
			}
		}
	}

	palette := &Palette{}
	var err error
	switch {
	case len(modern) > 0:
		err = applyPaletteChunks(palette, modern)
	case len(old256) > 0:
		err = applyOldPaletteChunks(palette, old256, false)
	case len(old64) > 0:
		err = applyOldPaletteChunks(palette, old64, ScaleOldPalette64)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if hdr.ColorDepth == ColorDepthIndexed {
		palette.Colors[hdr.TransparentIndex].A = 0
	}
	return palette, nil
}

func applyPaletteChunks(palette *Palette, chunks []*PaletteChunk) error {
	written := false
	for _, chunk := range chunks {
		n := int(chunk.Last) - int(chunk.First) + 1
		if n > len(chunk.Entries) {
			n = len(chunk.Entries)
		}
		for i := 0; i < n; i++ {
			palette.Colors[int(chunk.First)+i] = chunk.Entries[i].Color
			written = true
		}
	}
	if !written {
		return errors.WithStack(ErrPaletteEmpty)
	}
	return nil
}

// scale63 widens a six-bit channel to eight bits.
func scale63(v uint8) uint8 {
	if v >= 63 {
		return 255
	}
	return uint8((int(v)*255 + 31) / 63)
}

func applyOldPaletteChunks(palette *Palette, chunks []*OldPaletteChunk, scale bool) error {
	written := false
	for _, chunk := range chunks {
		idx := 0
		for _, packet := range chunk.Packets {
			idx += int(packet.Skip)
			if idx+len(packet.Colors) > 256 {
				return errors.WithStack(ErrPaletteIndexOutOfBounds)
			}
			for _, c := range packet.Colors {
				if scale {
					c = RGB{
						R: scale63(c.R),
						G: scale63(c.G),
						B: scale63(c.B),
					}
				}
				palette.Colors[idx] = Color{R: c.R, G: c.G, B: c.B, A: 255}
				idx++
				written = true
			}
		}
	}
	if !written {
		return errors.WithStack(ErrPaletteEmpty)
	}
	return nil
}
