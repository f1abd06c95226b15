package aseprite

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/limberd/aseprite/internal/require"
)

var (
	red   = Color{R: 255, A: 255}
	green = Color{G: 255, A: 255}
	white = Color{R: 255, G: 255, B: 255, A: 255}
)

func buildCombineFile() []byte {
	return buildFile(fileSpec{
		width: 8, height: 8, depth: ColorDepthRGBA,
		flags: HeaderFlagLayerOpacityValid,
		frames: []frameSpec{
			{duration: 100, chunks: [][]byte{
				layerChunkBytes(uint16(LayerFlagVisible), LayerTypeNormal, BlendModeNormal, 255, "Background"),
				layerChunkBytes(uint16(LayerFlagVisible), LayerTypeNormal, BlendModeMultiply, 255, "Shade"),
				celRawBytes(0, 0, 0, 255, 2, 2, solidPixels(red, 4)),
				celCompressedBytes(1, 1, 1, 255, 2, 2, solidPixels(white, 4)),
			}},
			{duration: 50, chunks: [][]byte{
				celLinkedBytes(0, 0),
				celRawBytes(1, -1, 0, 255, 2, 2, solidPixels(green, 4)),
			}},
		},
	})
}

func pixelAt(target []byte, width, x, y int) Color {
	i := (y*width + x) * 4
	return Color{R: target[i], G: target[i+1], B: target[i+2], A: target[i+3]}
}

func TestCombinedFrameImage(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	width, height := spr.Size()
	require.Equal(t, width, 8)
	require.Equal(t, height, 8)

	target := make([]byte, width*height*4)
	hash, err := spr.CombinedFrameImage(0, target)
	require.NoError(t, err)
	require.True(t, hash != 0, "content hash")

	// background cel covers (0,0)..(1,1)
	require.Equal(t, pixelAt(target, width, 0, 0), red)
	// multiplying white over red keeps red
	require.Equal(t, pixelAt(target, width, 1, 1), red)
	// the shade cel alone over a transparent backdrop stays white
	require.Equal(t, pixelAt(target, width, 2, 2), white)
	// untouched pixels stay fully transparent
	require.Equal(t, pixelAt(target, width, 3, 3), Color{})
}

func TestCombinedFrameImageDeterminism(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	width, height := spr.Size()
	for frame := range spr.File.Frames {
		first := make([]byte, width*height*4)
		second := make([]byte, width*height*4)
		hash1, err := spr.CombinedFrameImage(frame, first)
		require.NoError(t, err)
		hash2, err := spr.CombinedFrameImage(frame, second)
		require.NoError(t, err)
		require.Equal(t, hash1, hash2, "frame", frame)
		require.True(t, bytes.Equal(first, second), "frame", frame)
	}
}

func TestCombinedFrameImageLinkedAndClipped(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	width, height := spr.Size()
	target := make([]byte, width*height*4)
	_, err = spr.CombinedFrameImage(1, target)
	require.NoError(t, err)

	// the linked cel repeats frame 0's red background; the green cel
	// at x=-1 is clipped and multiplies what it still overlaps
	require.Equal(t, pixelAt(target, width, 0, 0), Color{A: 255})
	require.Equal(t, pixelAt(target, width, 0, 1), Color{A: 255})
	// right of the green cel the background shows through
	require.Equal(t, pixelAt(target, width, 1, 0), red)
}

func TestLinkedCelSharesImage(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	require.Equal(t, spr.FrameCels[1][0].ImageIndex, spr.FrameCels[0][0].ImageIndex)
	// two distinct cel images plus the frame 1 green cel
	require.Equal(t, spr.ImageCount(), 3)
}

func TestHiddenLayerSkipped(t *testing.T) {
	data := buildFile(fileSpec{
		width: 4, height: 4, depth: ColorDepthRGBA,
		flags: HeaderFlagLayerOpacityValid,
		frames: []frameSpec{{duration: 100, chunks: [][]byte{
			layerChunkBytes(0, LayerTypeNormal, BlendModeNormal, 255, "hidden"),
			celRawBytes(0, 0, 0, 255, 2, 2, solidPixels(red, 4)),
		}}},
	})

	spr, err := Load(data)
	require.NoError(t, err)

	target := make([]byte, 4*4*4)
	_, err = spr.CombinedFrameImage(0, target)
	require.NoError(t, err)
	for _, b := range target {
		require.Equal(t, b, uint8(0))
	}
}

func TestTargetBufferTooSmall(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	_, err = spr.CombinedFrameImage(0, make([]byte, 16))
	require.True(t, errors.Is(err, ErrTargetBufferTooSmall), "got", err)
}

func TestFrameIndexOutOfRange(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	_, err = spr.CombinedFrameImage(5, make([]byte, 8*8*4))
	require.True(t, errors.Is(err, ErrFrameIndexOutOfRange), "got", err)
}

func TestInvalidLinkedCel(t *testing.T) {
	data := buildFile(fileSpec{
		width: 4, height: 4, depth: ColorDepthRGBA,
		frames: []frameSpec{
			{duration: 100, chunks: [][]byte{
				layerChunkBytes(uint16(LayerFlagVisible), LayerTypeNormal, BlendModeNormal, 255, "Layer 1"),
			}},
			{duration: 100, chunks: [][]byte{
				celLinkedBytes(0, 0),
			}},
		},
	})

	_, err := Load(data)
	require.True(t, errors.Is(err, ErrInvalidLinkedCel), "got", err)
}

func TestLoadImageRaw(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	fc := spr.FrameCels[0][0]
	target := make([]byte, int(fc.Width)*int(fc.Height)*4)
	require.NoError(t, spr.LoadImage(fc.ImageIndex, target))
	require.True(t, bytes.Equal(target, solidPixels(red, 4)))
}

func TestLoadImageCompressed(t *testing.T) {
	spr, err := Load(buildCombineFile())
	require.NoError(t, err)

	fc := spr.FrameCels[0][1]
	target := make([]byte, int(fc.Width)*int(fc.Height)*4)
	require.NoError(t, spr.LoadImage(fc.ImageIndex, target))
	require.True(t, bytes.Equal(target, solidPixels(white, 4)))
}

func TestLoadImageGrayscale(t *testing.T) {
	data := buildFile(fileSpec{
		width: 4, height: 4, depth: ColorDepthGrayscale,
		frames: []frameSpec{{duration: 100, chunks: [][]byte{
			layerChunkBytes(uint16(LayerFlagVisible), LayerTypeNormal, BlendModeNormal, 255, "Layer 1"),
			celRawBytes(0, 0, 0, 255, 2, 1, []byte{100, 255, 30, 128}),
		}}},
	})

	spr, err := Load(data)
	require.NoError(t, err)

	target := make([]byte, 2*1*4)
	require.NoError(t, spr.LoadImage(0, target))
	require.Equal(t, pixelAt(target, 2, 0, 0), Color{R: 100, G: 100, B: 100, A: 255})
	require.Equal(t, pixelAt(target, 2, 1, 0), Color{R: 30, G: 30, B: 30, A: 128})
}

func TestLoadImageIndexed(t *testing.T) {
	colors := make([]Color, 32)
	colors[27] = Color{R: 172, G: 50, B: 50, A: 255}
	data := buildFile(fileSpec{
		width: 4, height: 4, depth: ColorDepthIndexed,
		transparent: 0, colorCount: 32,
		frames: []frameSpec{{duration: 100, chunks: [][]byte{
			paletteChunkBytes(0, 31, colors),
			layerChunkBytes(uint16(LayerFlagVisible), LayerTypeNormal, BlendModeNormal, 255, "Layer 1"),
			celCompressedBytes(0, 0, 0, 255, 1, 1, []byte{27}),
		}}},
	})

	spr, err := Load(data)
	require.NoError(t, err)

	target := make([]byte, 4)
	require.NoError(t, spr.LoadImage(0, target))
	require.Equal(t, pixelAt(target, 1, 0, 0), Color{R: 172, G: 50, B: 50, A: 255})
}

func TestTilemapCelSkippedWithWarning(t *testing.T) {
	tiles := make([]byte, 4*4) // one 32-bit tile reference per cell
	data := buildFile(fileSpec{
		width: 8, height: 8, depth: ColorDepthRGBA,
		frames: []frameSpec{{duration: 100, chunks: [][]byte{
			layerChunkBytes(uint16(LayerFlagVisible), LayerTypeTilemap, BlendModeNormal, 255, "Tiles"),
			celTilemapBytes(0, 0, 0, 2, 2, tiles),
		}}},
	})

	spr, err := Load(data)
	require.NoError(t, err)
	require.True(t, len(spr.Warnings) > 0, "expected a tilemap warning")

	cel := spr.File.Frames[0].Cels[0]
	require.True(t, cel != nil, "tilemap cel missing from the model")
	tilemap, ok := cel.Content.(*CompressedTilemap)
	require.True(t, ok, "expected tilemap content")
	require.Equal(t, tilemap.Width, uint16(2))
	require.Equal(t, tilemap.BitsPerTile, uint16(32))

	target := make([]byte, 8*8*4)
	_, err = spr.CombinedFrameImage(0, target)
	require.NoError(t, err)
}

func TestCorruptCompressedCel(t *testing.T) {
	payload := celPreamble(0, 0, 0, 255, celTypeCompressedImage)
	payload = append(payload, le16(2)...)
	payload = append(payload, le16(2)...)
	payload = append(payload, 0x01, 0x02, 0x03) // not a zlib stream
	data := buildFile(fileSpec{
		width: 4, height: 4, depth: ColorDepthRGBA,
		frames: []frameSpec{{duration: 100, chunks: [][]byte{
			layerChunkBytes(uint16(LayerFlagVisible), LayerTypeNormal, BlendModeNormal, 255, "Layer 1"),
			buildChunk(chunkCel, payload),
		}}},
	})

	spr, err := Load(data)
	require.NoError(t, err)

	target := make([]byte, 2*2*4)
	err = spr.LoadImage(0, target)
	require.True(t, errors.Is(err, ErrDecompress), "got", err)
}
