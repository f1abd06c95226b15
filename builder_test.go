package aseprite

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
)

// Test fixtures are synthesized byte for byte so that every expectation
// about the wire format is visible in the test itself.

func put16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func put32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

func le16(v uint16) []byte {
	b := make([]byte, 2)
	put16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	put32(b, v)
	return b
}

func leString(s string) []byte {
	return append(le16(uint16(len(s))), s...)
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

type fileSpec struct {
	width, height uint16
	depth         ColorDepth
	flags         uint32
	transparent   uint8
	colorCount    uint16
	frames        []frameSpec
}

type frameSpec struct {
	duration uint16
	chunks   [][]byte
}

func buildFile(spec fileSpec) []byte {
	var frames []byte
	for _, f := range spec.frames {
		frames = append(frames, buildFrame(f)...)
	}
	hdr := make([]byte, 128)
	put32(hdr[0:], uint32(128+len(frames)))
	put16(hdr[4:], headerMagic)
	put16(hdr[6:], uint16(len(spec.frames)))
	put16(hdr[8:], spec.width)
	put16(hdr[10:], spec.height)
	put16(hdr[12:], uint16(spec.depth))
	put32(hdr[14:], spec.flags)
	put16(hdr[18:], 100) // deprecated speed
	hdr[28] = spec.transparent
	put16(hdr[32:], spec.colorCount)
	hdr[34] = 1 // pixel width
	hdr[35] = 1 // pixel height
	put16(hdr[40:], 16)
	put16(hdr[42:], 16)
	return append(hdr, frames...)
}

func buildFrame(f frameSpec) []byte {
	body := bytes.Join(f.chunks, nil)
	out := make([]byte, 16, 16+len(body))
	put32(out[0:], uint32(16+len(body)))
	put16(out[4:], frameMagic)
	put16(out[6:], uint16(len(f.chunks)))
	put16(out[8:], f.duration)
	put32(out[12:], uint32(len(f.chunks)))
	return append(out, body...)
}

func buildChunk(code uint16, payload []byte) []byte {
	out := make([]byte, 6, 6+len(payload))
	put32(out[0:], uint32(6+len(payload)))
	put16(out[4:], code)
	return append(out, payload...)
}

func layerChunkBytes(flags uint16, layerType LayerType, mode BlendMode, opacity uint8, name string) []byte {
	var payload []byte
	payload = append(payload, le16(flags)...)
	payload = append(payload, le16(uint16(layerType))...)
	payload = append(payload, le16(0)...) // child level
	payload = append(payload, le16(0)...) // default width
	payload = append(payload, le16(0)...) // default height
	payload = append(payload, le16(uint16(mode))...)
	payload = append(payload, opacity, 0, 0, 0)
	payload = append(payload, leString(name)...)
	if layerType == LayerTypeTilemap {
		payload = append(payload, le32(0)...)
	}
	return buildChunk(chunkLayer, payload)
}

func celPreamble(layer uint16, x, y int16, opacity uint8, celType uint16) []byte {
	var payload []byte
	payload = append(payload, le16(layer)...)
	payload = append(payload, le16(uint16(x))...)
	payload = append(payload, le16(uint16(y))...)
	payload = append(payload, opacity)
	payload = append(payload, le16(celType)...)
	payload = append(payload, make([]byte, 7)...)
	return payload
}

func celRawBytes(layer uint16, x, y int16, opacity uint8, w, h uint16, pix []byte) []byte {
	payload := celPreamble(layer, x, y, opacity, celTypeRawImage)
	payload = append(payload, le16(w)...)
	payload = append(payload, le16(h)...)
	payload = append(payload, pix...)
	return buildChunk(chunkCel, payload)
}

func celCompressedBytes(layer uint16, x, y int16, opacity uint8, w, h uint16, pix []byte) []byte {
	payload := celPreamble(layer, x, y, opacity, celTypeCompressedImage)
	payload = append(payload, le16(w)...)
	payload = append(payload, le16(h)...)
	payload = append(payload, zlibCompress(pix)...)
	return buildChunk(chunkCel, payload)
}

func celLinkedBytes(layer uint16, frame uint16) []byte {
	payload := celPreamble(layer, 0, 0, 255, celTypeLinked)
	payload = append(payload, le16(frame)...)
	return buildChunk(chunkCel, payload)
}

func celTilemapBytes(layer uint16, x, y int16, wTiles, hTiles uint16, tiles []byte) []byte {
	payload := celPreamble(layer, x, y, 255, celTypeTilemap)
	payload = append(payload, le16(wTiles)...)
	payload = append(payload, le16(hTiles)...)
	payload = append(payload, le16(32)...)          // bits per tile
	payload = append(payload, le32(0x1fffffff)...)  // tile id mask
	payload = append(payload, le32(0x80000000)...)  // y flip mask
	payload = append(payload, le32(0x40000000)...)  // x flip mask
	payload = append(payload, le32(0x20000000)...)  // rotation mask
	payload = append(payload, make([]byte, 10)...)
	payload = append(payload, zlibCompress(tiles)...)
	return buildChunk(chunkCel, payload)
}

func paletteChunkBytes(first, last uint32, colors []Color) []byte {
	var payload []byte
	payload = append(payload, le32(uint32(len(colors)))...)
	payload = append(payload, le32(first)...)
	payload = append(payload, le32(last)...)
	payload = append(payload, make([]byte, 8)...)
	for _, c := range colors {
		payload = append(payload, le16(0)...)
		payload = append(payload, c.R, c.G, c.B, c.A)
	}
	return buildChunk(chunkPalette, payload)
}

func oldPaletteBytes(code uint16, skip uint8, colors []RGB) []byte {
	var payload []byte
	payload = append(payload, le16(1)...) // one packet
	payload = append(payload, skip, uint8(len(colors)))
	for _, c := range colors {
		payload = append(payload, c.R, c.G, c.B)
	}
	return buildChunk(code, payload)
}

func tagsChunkBytes(tags []Tag) []byte {
	var payload []byte
	payload = append(payload, le16(uint16(len(tags)))...)
	payload = append(payload, make([]byte, 8)...)
	for _, t := range tags {
		payload = append(payload, le16(t.From)...)
		payload = append(payload, le16(t.To)...)
		payload = append(payload, uint8(t.Direction))
		payload = append(payload, le16(t.Repeat)...)
		payload = append(payload, make([]byte, 6)...)
		payload = append(payload, t.Color[0], t.Color[1], t.Color[2], 0)
		payload = append(payload, leString(t.Name)...)
	}
	return buildChunk(chunkTags, payload)
}

func userDataTextBytes(text string) []byte {
	payload := append(le32(userDataHasText), leString(text)...)
	return buildChunk(chunkUserData, payload)
}

func sliceChunkBytes(name string, frame uint32, x, y int32, w, h uint32) []byte {
	var payload []byte
	payload = append(payload, le32(1)...) // one key
	payload = append(payload, le32(0)...) // flags
	payload = append(payload, le32(0)...) // reserved
	payload = append(payload, leString(name)...)
	payload = append(payload, le32(frame)...)
	payload = append(payload, le32(uint32(x))...)
	payload = append(payload, le32(uint32(y))...)
	payload = append(payload, le32(w)...)
	payload = append(payload, le32(h)...)
	return buildChunk(chunkSlice, payload)
}

func solidPixels(c Color, n int) []byte {
	pix := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return pix
}
