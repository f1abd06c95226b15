package aseprite

import (
	"fmt"

	"github.com/pkg/errors"
)

// Frame is one unit of animation: a duration and one cel slot per
// layer.
type Frame struct {
	// Duration is the display time of the frame in milliseconds.
	Duration uint16
	// Cels is indexed by layer; a nil entry means the layer
	// contributes nothing to this frame.
	Cels []*Cel
}

// File is the reconciled sprite model. It is built once per input and
// immutable afterwards. Variable-length byte fields (pixel payloads,
// tile and ICC data, unknown chunk bytes) alias the input buffer; the
// model is valid for as long as that buffer is. Strings and property
// values are copied.
type File struct {
	Header  Header
	Palette *Palette
	Layers  []Layer
	Frames  []Frame
	Tags    []Tag
	Slices  []Slice
	// Tilesets are preserved for callers; composition does not consume
	// them.
	Tilesets      []Tileset
	ColorProfile  *ColorProfile
	ExternalFiles []ExternalFile
	// UserData is the sprite-level user data, conveyed by a user data
	// chunk following the first palette chunk of frame 0.
	UserData *UserData
	// Warnings lists non-fatal conditions found while building the
	// model, such as tilemap cels that cannot be composited.
	Warnings []string
}

// ParseFile decodes the container and reconciles the chunks into a
// sprite model.
func ParseFile(data []byte) (*File, error) {
	raw, hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	rawFrames, err := parseRawFrames(raw)
	if err != nil {
		return nil, err
	}
	palette, err := buildPalette(&hdr, rawFrames)
	if err != nil {
		return nil, err
	}
	if palette == nil && hdr.ColorDepth == ColorDepthIndexed {
		return nil, errors.WithStack(ErrPaletteMissing)
	}

	f := &File{Header: hdr, Palette: palette}

	// Walk the chunk stream once. A user data chunk belongs to the
	// chunk preceding it, so every owner peeks at its successor.
	frameCels := make([][]*Cel, 0, len(rawFrames))
	durations := make([]uint16, 0, len(rawFrames))
	for frameIndex, frame := range rawFrames {
		var cels []*Cel
		chunks := frame.chunks
		for i := 0; i < len(chunks); i++ {
			switch c := chunks[i].(type) {
			case *Layer:
				c.UserData = nextUserData(chunks, &i)
				f.Layers = append(f.Layers, *c)
			case *Cel:
				c.UserData = nextUserData(chunks, &i)
				cels = append(cels, c)
			case *TagsChunk:
				// One user data chunk follows per tag, in tag order,
				// until some tag has none.
				for t := range c.Tags {
					ud := nextUserData(chunks, &i)
					if ud == nil {
						break
					}
					c.Tags[t].UserData = ud
				}
				f.Tags = append(f.Tags, c.Tags...)
			case *Slice:
				c.UserData = nextUserData(chunks, &i)
				f.Slices = append(f.Slices, *c)
			case *PaletteChunk, *OldPaletteChunk:
				// Aseprite 1.3 stores sprite user data after the first
				// palette chunk of the first frame.
				if frameIndex == 0 && f.UserData == nil {
					f.UserData = nextUserData(chunks, &i)
				}
			case *Tileset:
				f.Tilesets = append(f.Tilesets, *c)
			case *ColorProfile:
				if f.ColorProfile == nil {
					f.ColorProfile = c
				}
			case *ExternalFiles:
				f.ExternalFiles = append(f.ExternalFiles, c.Files...)
			}
		}
		frameCels = append(frameCels, cels)
		durations = append(durations, frame.duration)
	}

	// Reshape each frame's cel list into a fixed array indexed by
	// layer.
	f.Frames = make([]Frame, len(frameCels))
	for i, cels := range frameCels {
		slots := make([]*Cel, len(f.Layers))
		for _, cel := range cels {
			if int(cel.LayerIndex) >= len(f.Layers) {
				return nil, errors.WithStack(ErrLayerIndexOutOfBounds)
			}
			if _, ok := cel.Content.(*CompressedTilemap); ok {
				f.Warnings = append(f.Warnings, fmt.Sprintf(
					"frame %d layer %d: tilemap composition unsupported", i, cel.LayerIndex))
			}
			slots[cel.LayerIndex] = cel
		}
		f.Frames[i] = Frame{Duration: durations[i], Cels: slots}
	}

	return f, nil
}

// nextUserData advances past the chunk at *i+1 and returns it if it is
// a user data chunk.
func nextUserData(chunks []Chunk, i *int) *UserData {
	if *i+1 < len(chunks) {
		if ud, ok := chunks[*i+1].(*UserData); ok {
			*i++
			return ud
		}
	}
	return nil
}
