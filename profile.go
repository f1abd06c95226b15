package aseprite

// ColorProfileType discriminates the color profile variants. Unknown
// values are carried as-is.
type ColorProfileType uint16

const (
	ColorProfileNone ColorProfileType = iota
	ColorProfileSRGB
	ColorProfileEmbeddedICC
)

// ColorProfileFlagFixedGamma marks the gamma field as meaningful.
const ColorProfileFlagFixedGamma = 0x1

// ColorProfile is the sprite color profile chunk (0x2007).
type ColorProfile struct {
	Type  ColorProfileType
	Flags uint16
	// Gamma is only meaningful when the fixed gamma flag is set.
	Gamma Fixed
	// ICC is the embedded profile for ColorProfileEmbeddedICC.
	ICC []byte
}

func (*ColorProfile) aseChunk() {}

func parseColorProfileChunk(raw []byte) (*ColorProfile, error) {
	raw, profileType, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, flags, err := readWord(raw)
	if err != nil {
		return nil, err
	}
	raw, gamma, err := readFixed(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 8)
	if err != nil {
		return nil, err
	}
	profile := &ColorProfile{
		Type:  ColorProfileType(profileType),
		Flags: flags,
		Gamma: gamma,
	}
	if profile.Type == ColorProfileEmbeddedICC {
		var n int
		raw, n, err = readDwordAsInt(raw)
		if err != nil {
			return nil, err
		}
		_, profile.ICC, err = readBytes(raw, n)
		if err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// ExternalFileType discriminates external file entries. Unknown values
// are carried as-is.
type ExternalFileType uint8

const (
	ExternalFilePalette ExternalFileType = iota
	ExternalFileTileset
	ExternalFileExtensionProperties
)

// ExternalFile is one entry of the external files chunk. The entry ID
// is referenced by tilesets, palettes and property maps.
type ExternalFile struct {
	EntryID uint32
	Type    ExternalFileType
	Name    string
}

// ExternalFiles is the list of files linked with this sprite (0x2008).
type ExternalFiles struct {
	Files []ExternalFile
}

func (*ExternalFiles) aseChunk() {}

func parseExternalFilesChunk(raw []byte) (*ExternalFiles, error) {
	raw, count, err := readDwordAsInt(raw)
	if err != nil {
		return nil, err
	}
	raw, _, err = readBytes(raw, 8)
	if err != nil {
		return nil, err
	}
	files := make([]ExternalFile, count)
	for i := range files {
		raw, files[i].EntryID, err = readDword(raw)
		if err != nil {
			return nil, err
		}
		var fileType uint8
		raw, fileType, err = readByte(raw)
		if err != nil {
			return nil, err
		}
		files[i].Type = ExternalFileType(fileType)
		raw, _, err = readBytes(raw, 7)
		if err != nil {
			return nil, err
		}
		raw, files[i].Name, err = readString(raw)
		if err != nil {
			return nil, err
		}
	}
	return &ExternalFiles{Files: files}, nil
}
