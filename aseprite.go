// Package aseprite implements a decoder for Aseprite sprite files.
//
// The decoder reconstructs the full animation model of a sprite:
// layers, frames, cels, tags, palettes, slices and user data. Frames
// are composed into RGBA rasters by blending layered cels with
// Aseprite-compatible blend modes. Tilesets are preserved but not
// rasterized.
//
// Aseprite file format spec: https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md
package aseprite

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/pkg/errors"

	"github.com/limberd/aseprite/internal/blend"
)

// SaturationBugCompatible controls whether the HSL blend modes
// reproduce Aseprite's quirky min/mid/max channel ordering. It
// defaults to bug-compatible because existing sprites were authored
// under that behavior.
func SaturationBugCompatible(compatible bool) {
	blend.SaturationBugCompatible = compatible
}

// celImage is one decodable image payload. Linked cels share an entry.
type celImage struct {
	width, height uint16
	compressed    bool
	data          []byte
}

// FrameCel places an image in a frame. The origin may be negative;
// composition clips against the sprite bounds.
type FrameCel struct {
	X, Y          int16
	Width, Height uint16
	LayerIndex    int
	ImageIndex    int
}

// AsepriteFile is a loaded sprite ready for composition. The embedded
// File exposes the reconciled model; the loader adds the deduplicated
// image table and per-frame cel placements with linked cels resolved.
//
// The value is immutable after Load. CombinedFrameImage may be called
// concurrently as long as each caller owns its target buffer.
type AsepriteFile struct {
	*File
	// FrameCels holds, per frame, the placed cels in layer order.
	FrameCels [][]FrameCel

	images     []celImage
	maxCelArea int
}

// celSlot addresses a cel by frame and layer.
type celSlot struct {
	frame, layer int
}

// Load parses data and prepares it for composition.
func Load(data []byte) (*AsepriteFile, error) {
	file, err := ParseFile(data)
	if err != nil {
		return nil, err
	}

	a := &AsepriteFile{File: file}

	imageIndex := make(map[celSlot]int)

	for fi := range file.Frames {
		for li, cel := range file.Frames[fi].Cels {
			if cel == nil {
				continue
			}
			var width, height uint16
			var compressed bool
			var data []byte
			switch content := cel.Content.(type) {
			case *RawImage:
				width, height, data = content.Width, content.Height, content.Pixels
			case *CompressedImage:
				width, height, data = content.Width, content.Height, content.Pixels
				compressed = true
			default:
				continue
			}
			imageIndex[celSlot{fi, li}] = len(a.images)
			a.images = append(a.images, celImage{
				width:      width,
				height:     height,
				compressed: compressed,
				data:       data,
			})
			if area := int(width) * int(height); area > a.maxCelArea {
				a.maxCelArea = area
			}
		}
	}

	a.FrameCels = make([][]FrameCel, len(file.Frames))
	for fi := range file.Frames {
		var cels []FrameCel
		for li, cel := range file.Frames[fi].Cels {
			if cel == nil {
				continue
			}
			var index int
			switch content := cel.Content.(type) {
			case *RawImage, *CompressedImage:
				index = imageIndex[celSlot{fi, li}]
			case *LinkedCel:
				index, err = resolveLinkedCel(file, imageIndex, fi, li, int(content.Frame))
				if err != nil {
					return nil, err
				}
			default:
				// tilemap and unknown cels are not composited
				continue
			}
			img := a.images[index]
			cels = append(cels, FrameCel{
				X:          cel.X,
				Y:          cel.Y,
				Width:      img.width,
				Height:     img.height,
				LayerIndex: li,
				ImageIndex: index,
			})
		}
		a.FrameCels[fi] = cels
	}

	return a, nil
}

// resolveLinkedCel follows a chain of linked cels on one layer until
// it reaches an image cel.
func resolveLinkedCel(file *File, imageIndex map[celSlot]int, frame, layer, ref int) (int, error) {
	visited := map[int]bool{frame: true}
	for {
		if ref < 0 || ref >= len(file.Frames) || visited[ref] {
			return 0, errors.Wrapf(ErrInvalidLinkedCel, "frame %d layer %d", frame, layer)
		}
		if index, ok := imageIndex[celSlot{ref, layer}]; ok {
			return index, nil
		}
		visited[ref] = true
		cel := file.Frames[ref].Cels[layer]
		if cel == nil {
			return 0, errors.Wrapf(ErrInvalidLinkedCel, "frame %d layer %d", frame, layer)
		}
		linked, ok := cel.Content.(*LinkedCel)
		if !ok {
			return 0, errors.Wrapf(ErrInvalidLinkedCel, "frame %d layer %d", frame, layer)
		}
		ref = int(linked.Frame)
	}
}

// Size returns the sprite dimensions in pixels.
func (a *AsepriteFile) Size() (width, height int) {
	return int(a.Header.Width), int(a.Header.Height)
}

// ImageCount returns the number of distinct image payloads.
func (a *AsepriteFile) ImageCount() int {
	return len(a.images)
}

// LoadImage decodes the image payload at index into target as RGBA.
// The target must hold at least width*height*4 bytes for that image.
func (a *AsepriteFile) LoadImage(index int, target []byte) error {
	if index < 0 || index >= len(a.images) {
		return errors.WithStack(ErrImageIndexOutOfRange)
	}
	img := a.images[index]
	size := int(img.width) * int(img.height) * 4
	if len(target) < size {
		return errors.WithStack(ErrTargetBufferTooSmall)
	}
	target = target[:size]

	switch a.Header.ColorDepth {
	case ColorDepthRGBA:
		if !img.compressed {
			if len(img.data) != size {
				return errors.WithStack(ErrInvalidImageData)
			}
			copy(target, img.data)
			return nil
		}
		return decompress(img.data, target)
	case ColorDepthGrayscale:
		source := img.data
		if img.compressed {
			buf := make([]byte, int(img.width)*int(img.height)*2)
			if err := decompress(img.data, buf); err != nil {
				return err
			}
			source = buf
		}
		return grayscaleToRGBA(source, target)
	case ColorDepthIndexed:
		if a.Palette == nil {
			return errors.WithStack(ErrMissingPalette)
		}
		source := img.data
		if img.compressed {
			buf := make([]byte, int(img.width)*int(img.height))
			if err := decompress(img.data, buf); err != nil {
				return err
			}
			source = buf
		}
		return indexedToRGBA(source, a.Palette, target)
	}
	return errors.WithStack(ErrUnsupportedColorDepth)
}

// CombinedFrameImage composes every visible cel of the frame into
// target, which must hold width*height*4 bytes. Cels blend in layer
// order with the layer's opacity and blend mode; pixels outside the
// sprite bounds are clipped. The returned hash identifies the composed
// content and is stable across calls, making it usable as a cache key.
func (a *AsepriteFile) CombinedFrameImage(frameIndex int, target []byte) (uint64, error) {
	if frameIndex < 0 || frameIndex >= len(a.FrameCels) {
		return 0, errors.WithStack(ErrFrameIndexOutOfRange)
	}
	width, height := a.Size()
	size := width * height * 4
	if len(target) < size {
		return 0, errors.WithStack(ErrTargetBufferTooSmall)
	}
	target = target[:size]
	for i := range target {
		target[i] = 0
	}

	hasher := fnv.New64a()
	var scratch []byte
	if a.maxCelArea > 0 {
		scratch = make([]byte, a.maxCelArea*4)
	}

	for _, fc := range a.FrameCels[frameIndex] {
		layer := &a.Layers[fc.LayerIndex]
		if !layer.Visible() || layer.Reference() {
			continue
		}

		staging := scratch[:int(fc.Width)*int(fc.Height)*4]
		if err := a.LoadImage(fc.ImageIndex, staging); err != nil {
			return 0, err
		}

		hashFrameCel(hasher, fc)

		opacity := layer.Opacity
		if a.Header.Flags&HeaderFlagLayerOpacityValid == 0 {
			opacity = 255
		}
		mode := blend.Modes[0]
		if int(layer.BlendMode) < len(blend.Modes) {
			mode = blend.Modes[layer.BlendMode]
		}

		for y := 0; y < int(fc.Height); y++ {
			ty := int(fc.Y) + y
			if ty < 0 || ty >= height {
				continue
			}
			for x := 0; x < int(fc.Width); x++ {
				tx := int(fc.X) + x
				if tx < 0 || tx >= width {
					continue
				}
				ti := (ty*width + tx) * 4
				si := (y*int(fc.Width) + x) * 4
				back := blend.Color{R: target[ti], G: target[ti+1], B: target[ti+2], A: target[ti+3]}
				front := blend.Color{R: staging[si], G: staging[si+1], B: staging[si+2], A: staging[si+3]}
				out := mode(back, front, opacity)
				target[ti] = out.R
				target[ti+1] = out.G
				target[ti+2] = out.B
				target[ti+3] = out.A
			}
		}
	}

	return hasher.Sum64(), nil
}

func hashFrameCel(h hash.Hash64, fc FrameCel) {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(fc.ImageIndex))
	binary.LittleEndian.PutUint32(buf[4:], uint32(fc.LayerIndex))
	binary.LittleEndian.PutUint16(buf[8:], uint16(fc.X))
	binary.LittleEndian.PutUint16(buf[10:], uint16(fc.Y))
	binary.LittleEndian.PutUint16(buf[12:], fc.Width)
	binary.LittleEndian.PutUint16(buf[14:], fc.Height)
	h.Write(buf[:])
}
