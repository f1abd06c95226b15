package aseprite

import "github.com/pkg/errors"

// AnimationDirection is the playback direction of a tag. Unknown values
// are carried as-is.
type AnimationDirection uint8

const (
	DirectionForward AnimationDirection = iota
	DirectionReverse
	DirectionPingPong
	DirectionPingPongReverse
)

// Tag is a named inclusive frame range.
type Tag struct {
	// From and To are the first and last frame of the animation,
	// inclusive.
	From, To  uint16
	Direction AnimationDirection
	// Repeat is the play count. Zero means repeat forever.
	Repeat uint16
	// Color is the deprecated tag display color. Aseprite 1.3 stores
	// the tag color in the attached user data instead.
	Color    [3]uint8
	Name     string
	UserData *UserData
}

// TagsChunk is the list of tags declared by one 0x2018 chunk.
type TagsChunk struct {
	Tags []Tag
}

func (*TagsChunk) aseChunk() {}

func parseTagsChunk(raw []byte) (*TagsChunk, error) {
	raw, count, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 8)
	if err != nil {
		return nil, err
	}
	tags := make([]Tag, count)
	for i := range tags {
		raw, err = parseTag(&tags[i], raw)
		if err != nil {
			return nil, err
		}
	}
	return &TagsChunk{Tags: tags}, nil
}

func parseTag(t *Tag, raw []byte) ([]byte, error) {
	raw, from, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, to, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, errors.WithStack(&InvalidFrameRangeError{From: from, To: to})
	}
	raw, direction, err := readByte(raw)
	if err != nil {
		return nil, err
	}
	raw, repeat, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 6)
	if err != nil {
		return nil, err
	}
	raw, color, err := readBytes(raw, 3)
	if err != nil {
		return nil, err
	}
	raw, _, err = readByte(raw)
	if err != nil {
		return nil, err
	}
	raw, name, err := readString(raw)
	if err != nil {
		return nil, err
	}
	t.From = from
	t.To = to
	t.Direction = AnimationDirection(direction)
	t.Repeat = repeat
	t.Color = [3]uint8{color[0], color[1], color[2]}
	t.Name = name
	return raw, nil
}
