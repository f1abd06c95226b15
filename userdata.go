package aseprite

import "github.com/pkg/errors"

// User data flag bits.
const (
	userDataHasText       = 0x1
	userDataHasColor      = 0x2
	userDataHasProperties = 0x4
)

// UserData is the optional text/color/property tree that a user data
// chunk attaches to the chunk preceding it in the stream.
type UserData struct {
	Flags uint32
	// Text is only meaningful when HasText reports true.
	Text string
	// Color is only meaningful when HasColor reports true.
	Color      Color
	Properties []PropertiesMap
}

func (*UserData) aseChunk() {}

func (u *UserData) HasText() bool {
	return u.Flags&userDataHasText != 0
}

func (u *UserData) HasColor() bool {
	return u.Flags&userDataHasColor != 0
}

// PropertiesMap is one extension's named property tree.
type PropertiesMap struct {
	// ExtensionID refers to an entry of the external files chunk, or 0
	// for user properties.
	ExtensionID uint32
	Properties  []Property
}

// Property is a named, typed value.
type Property struct {
	Name  string
	Value Value
}

// PropertyType tags the wire encoding of a property value.
type PropertyType uint16

const (
	PropertyBool          PropertyType = 0x0001
	PropertyInt8          PropertyType = 0x0002
	PropertyUint8         PropertyType = 0x0003
	PropertyInt16         PropertyType = 0x0004
	PropertyUint16        PropertyType = 0x0005
	PropertyInt32         PropertyType = 0x0006
	PropertyUint32        PropertyType = 0x0007
	PropertyInt64         PropertyType = 0x0008
	PropertyUint64        PropertyType = 0x0009
	PropertyFixed         PropertyType = 0x000A
	PropertyFloat         PropertyType = 0x000B
	PropertyDouble        PropertyType = 0x000C
	PropertyString        PropertyType = 0x000D
	PropertyPoint         PropertyType = 0x000E
	PropertySize          PropertyType = 0x000F
	PropertyRect          PropertyType = 0x0010
	PropertyVector        PropertyType = 0x0011
	PropertyPropertiesMap PropertyType = 0x0012
	PropertyUUID          PropertyType = 0x0013
)

// Value is a decoded property value. The dynamic type is one of: bool,
// int8, uint8, int16, uint16, int32, uint32, int64, uint64, Fixed,
// float32, float64, string, Point, Size, Rect, UUID, Vector or
// PropertiesMap.
type Value any

// Vector is a list property. Elem is the element type tag, or 0 for a
// heterogeneous vector whose elements each carry their own tag.
type Vector struct {
	Elem   PropertyType
	Values []Value
}

func parseUserDataChunk(raw []byte) (*UserData, error) {
	raw, flags, err := readDword(raw)
	if err != nil {
		return nil, err
	}
	ud := &UserData{Flags: flags}
	if ud.HasText() {
		raw, ud.Text, err = readString(raw)
		if err != nil {
			return nil, err
		}
	}
	if ud.HasColor() {
		raw, ud.Color, err = readColor(raw)
		if err != nil {
			return nil, err
		}
	}
	if flags&userDataHasProperties != 0 {
		_, ud.Properties, err = parsePropertiesMaps(raw)
		if err != nil {
			return nil, err
		}
	}
	return ud, nil
}

// parsePropertiesMaps reads the properties blob. Its size field counts
// the map-count dword plus the maps themselves.
func parsePropertiesMaps(raw []byte) ([]byte, []PropertiesMap, error) {
	raw, size, err := readDwordAsInt(raw)
	if err != nil {
		return nil, nil, err
	}
	raw, count, err := readDwordAsInt(raw)
	if err != nil {
		return nil, nil, err
	}
	if size < 4 {
		return nil, nil, errors.WithStack(ErrUnexpectedEOF)
	}
	rest, window, err := readBytes(raw, size-4)
	if err != nil {
		return nil, nil, err
	}
	maps := make([]PropertiesMap, count)
	for i := range maps {
		window, maps[i], err = parsePropertiesMap(window)
		if err != nil {
			return nil, nil, err
		}
	}
	return rest, maps, nil
}

func parsePropertiesMap(raw []byte) ([]byte, PropertiesMap, error) {
	raw, extensionID, err := readDword(raw)
	if err != nil {
		return nil, PropertiesMap{}, err
	}
	raw, count, err := readDwordAsInt(raw)
	if err != nil {
		return nil, PropertiesMap{}, err
	}
	properties := make([]Property, count)
	for i := range properties {
		raw, properties[i].Name, err = readString(raw)
		if err != nil {
			return nil, PropertiesMap{}, err
		}
		raw, properties[i].Value, err = parseValue(raw)
		if err != nil {
			return nil, PropertiesMap{}, err
		}
	}
	return raw, PropertiesMap{ExtensionID: extensionID, Properties: properties}, nil
}

func parseValue(raw []byte) ([]byte, Value, error) {
	raw, code, err := readWord(raw)
	if err != nil {
		return nil, nil, err
	}
	return parseTypedValue(raw, PropertyType(code))
}

func parseTypedValue(raw []byte, code PropertyType) ([]byte, Value, error) {
	switch code {
	case PropertyBool:
		raw, b, err := readByte(raw)
		return raw, b != 0, err
	case PropertyInt8:
		raw, b, err := readByte(raw)
		return raw, int8(b), err
	case PropertyUint8:
		raw, b, err := readByte(raw)
		return raw, b, err
	case PropertyInt16:
		raw, v, err := readShort(raw)
		return raw, v, err
	case PropertyUint16:
		raw, v, err := readWord(raw)
		return raw, v, err
	case PropertyInt32:
		raw, v, err := readLong(raw)
		return raw, v, err
	case PropertyUint32:
		raw, v, err := readDword(raw)
		return raw, v, err
	case PropertyInt64:
		raw, v, err := readQword(raw)
		return raw, int64(v), err
	case PropertyUint64:
		raw, v, err := readQword(raw)
		return raw, v, err
	case PropertyFixed:
		raw, v, err := readFixed(raw)
		return raw, v, err
	case PropertyFloat:
		raw, v, err := readFloat(raw)
		return raw, v, err
	case PropertyDouble:
		raw, v, err := readDouble(raw)
		return raw, v, err
	case PropertyString:
		raw, v, err := readString(raw)
		return raw, v, err
	case PropertyPoint:
		raw, v, err := readPoint(raw)
		return raw, v, err
	case PropertySize:
		raw, v, err := readSizeValue(raw)
		return raw, v, err
	case PropertyRect:
		raw, v, err := readRect(raw)
		return raw, v, err
	case PropertyVector:
		return parseVector(raw)
	case PropertyPropertiesMap:
		raw, v, err := parsePropertiesMap(raw)
		return raw, v, err
	case PropertyUUID:
		raw, v, err := readUUID(raw)
		return raw, v, err
	}
	return nil, nil, errors.WithStack(&InvalidPropertyTypeError{Code: uint16(code)})
}

func parseVector(raw []byte) ([]byte, Value, error) {
	raw, count, err := readDwordAsInt(raw)
	if err != nil {
		return nil, nil, err
	}
	raw, elem, err := readWord(raw)
	if err != nil {
		return nil, nil, err
	}
	vec := Vector{Elem: PropertyType(elem), Values: make([]Value, count)}
	for i := range vec.Values {
		if vec.Elem == 0 {
			// heterogeneous vector, each element self-describes
			raw, vec.Values[i], err = parseValue(raw)
		} else {
			raw, vec.Values[i], err = parseTypedValue(raw, vec.Elem)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return raw, vec, nil
}
