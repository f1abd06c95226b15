package aseprite

// Cel sub-type discriminators.
const (
	celTypeRawImage        = 0
	celTypeLinked          = 1
	celTypeCompressedImage = 2
	celTypeTilemap         = 3
)

// Cel is one layer's contribution to one frame.
type Cel struct {
	LayerIndex uint16
	X, Y       int16
	Opacity    uint8
	Content    CelContent
	UserData   *UserData
}

func (*Cel) aseChunk() {}

// CelContent is the payload of a cel: an image, a link to another
// frame's cel, a tilemap, or an unknown blob.
type CelContent interface {
	aseCelContent()
}

// RawImage is uncompressed pixel data, row-major top-to-bottom.
type RawImage struct {
	Width, Height uint16
	Pixels        []byte
}

func (*RawImage) aseCelContent() {}

// CompressedImage is ZLIB-compressed pixel data.
type CompressedImage struct {
	Width, Height uint16
	Pixels        []byte
}

func (*CompressedImage) aseCelContent() {}

// LinkedCel reuses the image of the cel at (Frame, same layer).
type LinkedCel struct {
	Frame uint16
}

func (*LinkedCel) aseCelContent() {}

// CompressedTilemap is a ZLIB-compressed grid of tile references. The
// payload is preserved verbatim; composition does not rasterize it.
type CompressedTilemap struct {
	// Width and Height are in tiles.
	Width, Height uint16
	BitsPerTile   uint16
	TileIDMask    uint32
	XFlipMask     uint32
	YFlipMask     uint32
	RotationMask  uint32
	Data          []byte
}

func (*CompressedTilemap) aseCelContent() {}

// UnknownCel preserves a cel with an unrecognized sub-type.
type UnknownCel struct {
	Type uint16
	Data []byte
}

func (*UnknownCel) aseCelContent() {}

func parseCelChunk(raw []byte) (*Cel, error) {
	raw, layerIndex, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, x, err := readShort(raw)
	if err != nil {
		return nil, err
	}
	raw, y, err := readShort(raw)
	if err != nil {
		return nil, err
	}
	raw, opacity, err := readByte(raw)
	if err != nil {
		return nil, err
	}
	raw, celType, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 7)
	if err != nil {
		return nil, err
	}

	var content CelContent
	switch celType {
	case celTypeRawImage:
		var width, height uint16
		raw, width, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		raw, height, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		content = &RawImage{Width: width, Height: height, Pixels: raw}
	case celTypeLinked:
		var frame uint16
		_, frame, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		content = &LinkedCel{Frame: frame}
	case celTypeCompressedImage:
		var width, height uint16
		raw, width, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		raw, height, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		content = &CompressedImage{Width: width, Height: height, Pixels: raw}
	case celTypeTilemap:
		tm := &CompressedTilemap{}
		raw, tm.Width, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		raw, tm.Height, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		raw, tm.BitsPerTile, err = readWord(raw)
		if err != nil {
			return nil, err
		}
		raw, tm.TileIDMask, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		raw, tm.YFlipMask, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		raw, tm.XFlipMask, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		raw, tm.RotationMask, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		raw, _, err = readBytes(raw, 10)
		if err != nil {
			return nil, err
		}
		tm.Data = raw
		content = tm
	default:
		content = &UnknownCel{Type: celType, Data: raw}
	}

	return &Cel{
		LayerIndex: layerIndex,
		X:          x,
		Y:          y,
		Opacity:    opacity,
		Content:    content,
	}, nil
}

// CelExtra holds the precise sub-pixel bounds of the previous cel
// chunk (0x2006).
type CelExtra struct {
	Flags    uint32
	PreciseX Fixed
	PreciseY Fixed
	Width    Fixed
	Height   Fixed
	Future   []byte
}

func (*CelExtra) aseChunk() {}

// CelExtraFlagPreciseBounds marks the precise bounds as set.
const CelExtraFlagPreciseBounds = 0x1

func parseCelExtraChunk(raw []byte) (*CelExtra, error) {
	raw, flags, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	extra := &CelExtra{Flags: flags}
	raw, extra.PreciseX, err = readFixed(raw)
	if err != nil {
		return nil, err
	}
	raw, extra.PreciseY, err = readFixed(raw)
	if err != nil {
		return nil, err
	}
	raw, extra.Width, err = readFixed(raw)
	if err != nil {
		return nil, err
	}
	raw, extra.Height, err = readFixed(raw)
	if err != nil {
		return nil, err
	}
	extra.Future = raw
	return extra, nil
}
