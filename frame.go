package aseprite

import "github.com/pkg/errors"

const frameMagic = 0xF1FA

// rawFrame is a decoded frame before the model is reconciled: a
// duration and the chunk sequence in stream order.
type rawFrame struct {
	duration uint16
	chunks   []Chunk
}

// parseRawFrames consumes the entire frame region. Trailing bytes
// after the last frame fail the parse.
func parseRawFrames(raw []byte) ([]rawFrame, error) {
	if len(raw) == 0 {
		return nil, errors.WithStack(ErrUnexpectedEOF)
	}
	var frames []rawFrame
	for len(raw) > 0 {
		var frame rawFrame
		var err error
		raw, frame, err = parseRawFrame(raw)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// parseRawFrame reads one frame and advances by exactly its declared
// size. The declared size includes the four size bytes.
func parseRawFrame(raw []byte) ([]byte, rawFrame, error) {
	raw, size, err := readDwordSize(raw, func(n uint32) error {
		return &InvalidFrameSizeError{Size: n}
	})
	if err != nil {
		return nil, rawFrame{}, err
	}
	rest, window, err := readBytes(raw, size-4)
	if err != nil {
		return nil, rawFrame{}, err
	}
	window, magic, err := readWord(window)
	if err != nil {
		return nil, rawFrame{}, err
	}
	if magic != frameMagic {
		return nil, rawFrame{}, errors.WithStack(ErrInvalidMagic)
	}
	window, oldCount, err := readWord(window)
	if err != nil {
		return nil, rawFrame{}, err
	}
	window, duration, err := readWord(window)
	if err != nil {
		return nil, rawFrame{}, err
	}
	window, _, err = readBytes(window, 2)
	if err != nil {
		return nil, rawFrame{}, err
	}
	window, newCount, err := readDwordAsInt(window)
	if err != nil {
		return nil, rawFrame{}, err
	}
	// The word-sized chunk count overflows on large frames; the dword
	// field supersedes it when nonzero.
	count := newCount
	if count == 0 {
		count = int(oldCount)
	}

	chunks := make([]Chunk, count)
	for i := range chunks {
		window, chunks[i], err = parseChunk(window)
		if err != nil {
			return nil, rawFrame{}, err
		}
	}
	// Bytes in the frame body past the declared chunks are reserved.

	return rest, rawFrame{duration: duration, chunks: chunks}, nil
}
