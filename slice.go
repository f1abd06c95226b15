package aseprite

// SliceFlags is the bit set of per-key attachments.
type SliceFlags uint32

const (
	SliceFlagNinePatch SliceFlags = 0x1
	SliceFlagPivot     SliceFlags = 0x2
)

// Slice is a named region whose bounds may change over the animation.
type Slice struct {
	Name     string
	Flags    SliceFlags
	Keys     []SliceKey
	UserData *UserData
}

func (*Slice) aseChunk() {}

// SliceKey is the bounds of a slice from Frame onward. A key stays in
// effect until the frame of the next key.
type SliceKey struct {
	Frame  uint32
	X, Y   int32
	Width  uint32
	Height uint32
	// NinePatch is set when the slice has the nine-patch flag.
	NinePatch *NinePatch
	// Pivot is set when the slice has the pivot flag.
	Pivot *Point
}

// NinePatch is the center rectangle of a nine-patch slice, relative to
// the slice bounds.
type NinePatch struct {
	X, Y   int32
	Width  uint32
	Height uint32
}

// KeyAt returns the key in effect at the given frame, or nil when the
// slice has no key yet at that frame.
func (s *Slice) KeyAt(frame int) *SliceKey {
	var key *SliceKey
	for i := range s.Keys {
		if int(s.Keys[i].Frame) > frame {
			break
		}
		key = &s.Keys[i]
	}
	return key
}

func parseSliceChunk(raw []byte) (*Slice, error) {
	raw, count, err := readDwordAsInt(raw)
	if err != nil {
		return nil, err
	}
	raw, flags, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readDword(raw)
	if err != nil {
		return nil, err
	}
	raw, name, err := readString(raw)
	if err != nil {
		return nil, err
	}
	slice := &Slice{
		Name:  name,
		Flags: SliceFlags(flags),
		Keys:  make([]SliceKey, count),
	}
	for i := range slice.Keys {
		raw, err = parseSliceKey(&slice.Keys[i], slice.Flags, raw)
		if err != nil {
			return nil, err
		}
	}
	return slice, nil
}

func parseSliceKey(key *SliceKey, flags SliceFlags, raw []byte) ([]byte, error) {
	raw, frame, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	raw, x, err := readLong(raw)
	if err != nil {
		return nil, err
	}
	raw, y, err := readLong(raw)
	if err != nil {
		return nil, err
	}
	raw, width, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	raw, height, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	key.Frame = frame
	key.X, key.Y = x, y
	key.Width, key.Height = width, height
	if flags&SliceFlagNinePatch != 0 {
		np := &NinePatch{}
		raw, np.X, err = readLong(raw)
		if err != nil {
			return nil, err
		}
		raw, np.Y, err = readLong(raw)
		if err != nil {
			return nil, err
		}
		raw, np.Width, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		raw, np.Height, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		key.NinePatch = np
	}
	if flags&SliceFlagPivot != 0 {
		var pivot Point
		raw, pivot, err = readPoint(raw)
		if err != nil {
			return nil, err
		}
		key.Pivot = &pivot
	}
	return raw, nil
}
