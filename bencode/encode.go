package bencode

import (
	"bytes"
	"slices"
	"strconv"
)

// Encode writes data in canonical bencode. Dictionary keys are emitted in
// sorted order regardless of the order they were inserted in. Nil and
// INVALID values anywhere in the tree fail with ErrUnencodable.
func Encode(data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTo(buf *bytes.Buffer, data *Data) error {
	if data == nil {
		return ErrUnencodable
	}
	switch data.Type {
	case STRING:
		encodeString(buf, data.AsBytes())
	case INTEGER:
		buf.WriteByte('i')
		buf.WriteString(data.AsBigInt().String())
		buf.WriteByte('e')
	case LIST:
		buf.WriteByte('l')
		for _, elem := range data.AsList() {
			if err := encodeTo(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	case DICT:
		dict := data.AsDict()
		keys := dict.Keys()
		slices.Sort(keys)

		buf.WriteByte('d')
		for _, key := range keys {
			encodeString(buf, []byte(key))
			elem, _ := dict.Get(key)
			if err := encodeTo(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	default:
		return ErrUnencodable
	}
	return nil
}

func encodeString(buf *bytes.Buffer, b []byte) {
	buf.WriteString(strconv.Itoa(len(b)))
	buf.WriteByte(':')
	buf.Write(b)
}
