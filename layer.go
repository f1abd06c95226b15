package aseprite

// LayerFlags is the bit set of layer attributes.
type LayerFlags uint16

const (
	LayerFlagVisible LayerFlags = 1 << iota
	LayerFlagEditable
	LayerFlagLockMovement
	LayerFlagBackground
	LayerFlagPreferLinkedCels
	LayerFlagCollapsed
	LayerFlagReference
)

// LayerType discriminates normal, group and tilemap layers. Unknown
// values are carried as-is.
type LayerType uint16

const (
	LayerTypeNormal LayerType = iota
	LayerTypeGroup
	LayerTypeTilemap
)

// BlendMode is the per-layer blend mode. Unknown values are carried
// as-is and composite as Normal.
type BlendMode uint16

const (
	BlendModeNormal BlendMode = iota
	BlendModeMultiply
	BlendModeScreen
	BlendModeOverlay
	BlendModeDarken
	BlendModeLighten
	BlendModeColorDodge
	BlendModeColorBurn
	BlendModeHardLight
	BlendModeSoftLight
	BlendModeDifference
	BlendModeExclusion
	BlendModeHue
	BlendModeSaturation
	BlendModeColor
	BlendModeLuminosity
	BlendModeAddition
	BlendModeSubtract
	BlendModeDivide
)

// Layer is one entry of the layer table, in declaration order. The
// index a layer gets at decode time is the identifier every cel's
// LayerIndex refers to.
type Layer struct {
	Flags      LayerFlags
	Type       LayerType
	ChildLevel uint16
	BlendMode  BlendMode
	Opacity    uint8
	Name       string
	// TilesetIndex is only meaningful when Type is LayerTypeTilemap.
	TilesetIndex uint32
	UserData     *UserData
}

func (*Layer) aseChunk() {}

// Visible reports whether the layer participates in composition.
func (l *Layer) Visible() bool {
	return l.Flags&LayerFlagVisible != 0
}

// Reference reports whether the layer is a reference layer. Reference
// layers are never composited.
func (l *Layer) Reference() bool {
	return l.Flags&LayerFlagReference != 0
}

func parseLayerChunk(raw []byte) (*Layer, error) {
	raw, flags, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, layerType, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, childLevel, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	// default layer width and height, ignored by Aseprite
	raw, _, err = readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, blendMode, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, opacity, err := readByte(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 3)
	if err != nil {
		return nil, err
	}
	raw, name, err := readString(raw)
	if err != nil {
		return nil, err
	}
	layer := &Layer{
		Flags:      LayerFlags(flags),
		Type:       LayerType(layerType),
		ChildLevel: childLevel,
		BlendMode:  BlendMode(blendMode),
		Opacity:    opacity,
		Name:       name,
	}
	if layer.Type == LayerTypeTilemap {
		_, layer.TilesetIndex, err = readDword(raw)
		if err != nil {
			return nil, err
		}
	}
	return layer, nil
}
