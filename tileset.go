package aseprite

// TilesetFlags is the bit set of tileset storage variants.
type TilesetFlags uint32

const (
	TilesetFlagExternalFile TilesetFlags = 0x1
	TilesetFlagTiles        TilesetFlags = 0x2
	TilesetFlagTile0Empty   TilesetFlags = 0x4
)

// Tileset is a set of tiles referenced by tilemap layers (0x2023). The
// tile pixels stay ZLIB-compressed; tilemap rasterization is not
// implemented.
type Tileset struct {
	ID        uint32
	Flags     TilesetFlags
	TileCount uint32
	// TileWidth and TileHeight are the dimensions of a single tile.
	TileWidth  uint16
	TileHeight uint16
	// BaseIndex is the display number of the tile with index 1. UI
	// only, it does not affect the stored data.
	BaseIndex int16
	Name      string
	// External is set when the tiles live in an external file.
	External *TilesetExternalFile
	// Tiles is the compressed tileset image, (TileWidth) x
	// (TileHeight x TileCount), when stored in this file.
	Tiles []byte
}

func (*Tileset) aseChunk() {}

// TilesetExternalFile links a tileset to an external files chunk entry.
type TilesetExternalFile struct {
	FileID    uint32
	TilesetID uint32
}

func parseTilesetChunk(raw []byte) (*Tileset, error) {
	raw, id, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	raw, flags, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	ts := &Tileset{ID: id, Flags: TilesetFlags(flags)}
	raw, ts.TileCount, err = readDword(raw)
	if err != nil {
		return nil, err
	}
	raw, ts.TileWidth, err = readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, ts.TileHeight, err = readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, ts.BaseIndex, err = readShort(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 14)
	if err != nil {
		return nil, err
	}
	raw, ts.Name, err = readString(raw)
	if err != nil {
		return nil, err
	}
	if ts.Flags&TilesetFlagExternalFile != 0 {
		ext := &TilesetExternalFile{}
		raw, ext.FileID, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		raw, ext.TilesetID, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		ts.External = ext
	}
	if ts.Flags&TilesetFlagTiles != 0 {
		var n int
		raw, n, err = readDwordAsInt(raw)
		if err != nil {
			return nil, err
		}
		_, ts.Tiles, err = readBytes(raw, n)
		if err != nil {
			return nil, err
		}
	}
	return ts, nil
}
