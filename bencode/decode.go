package bencode

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
)

// DefaultMaxDepth is the nesting limit used when a Decoder has none set.
const DefaultMaxDepth = 512

// Decoder parses bencoded input. The zero value is ready to use and applies
// DefaultMaxDepth and accepts dictionary keys in any order.
type Decoder struct {
	// MaxDepth bounds how many lists and dictionaries may be open at once.
	// Values <= 0 mean DefaultMaxDepth.
	MaxDepth int
	// StrictKeyOrder rejects dictionaries whose keys are not sorted by raw
	// byte order.
	StrictKeyOrder bool
}

type Option func(*Decoder)

func WithMaxDepth(depth int) Option {
	return func(d *Decoder) {
		d.MaxDepth = depth
	}
}

func WithStrictKeyOrder(strict bool) Option {
	return func(d *Decoder) {
		d.StrictKeyOrder = strict
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// Decode reads one value from the start of content and returns it together
// with the number of bytes consumed. Bytes after the value are ignored.
func Decode(content []byte) (*Data, int, error) {
	return defaultDecoder.DecodeValue(content, 0)
}

// DecodeAll decodes content, which must hold exactly one value.
func DecodeAll(content []byte) (*Data, error) {
	return defaultDecoder.Decode(content)
}

// DecodeAndRender decodes content and returns its canonical text form.
func DecodeAndRender(content []byte) (string, error) {
	data, err := defaultDecoder.Decode(content)
	if err != nil {
		return "", err
	}
	return Render(data), nil
}

// Decode decodes content, which must hold exactly one value.
func (dec *Decoder) Decode(content []byte) (*Data, error) {
	data, next, err := dec.DecodeValue(content, 0)
	if err != nil {
		return nil, err
	}
	if next != len(content) {
		return nil, &DecodeError{
			Kind:   ErrTrailingData,
			Offset: next,
			Reason: fmt.Sprintf("%d bytes left after the value", len(content)-next),
		}
	}
	return data, nil
}

// DecodeValue decodes the value starting at offset and returns it with the
// offset of the first byte after it.
func (dec *Decoder) DecodeValue(content []byte, offset int) (*Data, int, error) {
	if offset < 0 {
		return nil, offset, malformed(offset, "negative offset")
	}
	return dec.decodeFrom(content, offset, 0)
}

func (dec *Decoder) maxDepth() int {
	if dec.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return dec.MaxDepth
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// decodeFrom dispatches on the lead byte. depth is the number of containers
// already open around pos.
func (dec *Decoder) decodeFrom(content []byte, pos int, depth int) (*Data, int, error) {
	if pos >= len(content) {
		return nil, pos, truncated(pos, "expected a value, got end of input")
	}
	switch c := content[pos]; {
	case c == 'i':
		return decodeInt(content, pos)
	case c == 'l':
		return dec.decodeList(content, pos, depth+1)
	case c == 'd':
		return dec.decodeDict(content, pos, depth+1)
	case isDigit(c):
		return decodeString(content, pos)
	case c == 'e':
		return nil, pos, malformed(pos, "end marker with no open list or dictionary")
	default:
		return nil, pos, malformed(pos, "unexpected byte %q", c)
	}
}

// i<digits>e
func decodeInt(content []byte, pos int) (*Data, int, error) {
	start := pos + 1
	i := start
	if i < len(content) && content[i] == '-' {
		i++
	}
	digitsStart := i
	for i < len(content) && isDigit(content[i]) {
		i++
	}
	if i >= len(content) {
		return nil, i, truncated(i, "unterminated integer")
	}
	if content[i] != 'e' {
		return nil, i, malformed(i, "unexpected byte %q in integer", content[i])
	}
	digits := content[digitsStart:i]
	if len(digits) == 0 {
		return nil, i, malformed(i, "integer has no digits")
	}
	if digits[0] == '0' && len(digits) > 1 {
		return nil, digitsStart, malformed(digitsStart, "integer has a leading zero")
	}
	if digits[0] == '0' && digitsStart > start {
		return nil, start, malformed(start, "negative zero")
	}
	n, ok := new(big.Int).SetString(string(content[start:i]), 10)
	if !ok {
		return nil, start, malformed(start, "invalid integer %q", content[start:i])
	}
	return &Data{Type: INTEGER, Value: n}, i + 1, nil
}

// <length>:<bytes>
func decodeString(content []byte, pos int) (*Data, int, error) {
	i := pos
	for i < len(content) && isDigit(content[i]) {
		i++
	}
	if i >= len(content) {
		return nil, i, truncated(i, "unterminated string length")
	}
	if content[i] != ':' {
		return nil, i, malformed(i, "unexpected byte %q in string length", content[i])
	}
	lengthDigits := content[pos:i]
	if lengthDigits[0] == '0' && len(lengthDigits) > 1 {
		return nil, pos, malformed(pos, "string length has a leading zero")
	}
	start := i + 1
	remaining := len(content) - start
	length, err := strconv.Atoi(string(lengthDigits))
	if err != nil || length > remaining {
		return nil, start, truncated(start, "string length %s exceeds the %d remaining bytes", lengthDigits, remaining)
	}
	end := start + length
	return &Data{Type: STRING, Value: content[start:end:end]}, end, nil
}

func (dec *Decoder) tooDeep(pos int) error {
	return &DecodeError{
		Kind:   ErrInputTooDeep,
		Offset: pos,
		Reason: fmt.Sprintf("nesting exceeds %d levels", dec.maxDepth()),
	}
}

// l<value>*e
func (dec *Decoder) decodeList(content []byte, pos int, depth int) (*Data, int, error) {
	if depth > dec.maxDepth() {
		return nil, pos, dec.tooDeep(pos)
	}
	list := make([]*Data, 0)
	i := pos + 1
	for {
		if i >= len(content) {
			return nil, i, truncated(i, "unterminated list")
		}
		if content[i] == 'e' {
			return &Data{Type: LIST, Value: list}, i + 1, nil
		}
		elem, next, err := dec.decodeFrom(content, i, depth)
		if err != nil {
			return nil, next, err
		}
		list = append(list, elem)
		i = next
	}
}

// d(<string><value>)*e
func (dec *Decoder) decodeDict(content []byte, pos int, depth int) (*Data, int, error) {
	if depth > dec.maxDepth() {
		return nil, pos, dec.tooDeep(pos)
	}
	dict := NewDict()
	var prevKey []byte
	i := pos + 1
	for {
		if i >= len(content) {
			return nil, i, truncated(i, "unterminated dictionary")
		}
		if content[i] == 'e' {
			return &Data{Type: DICT, Value: dict}, i + 1, nil
		}
		if !isDigit(content[i]) {
			return nil, i, malformed(i, "dictionary key must be a byte string")
		}
		keyPos := i
		key, next, err := decodeString(content, i)
		if err != nil {
			return nil, next, err
		}
		keyBytes := key.AsBytes()
		if _, ok := dict.Get(string(keyBytes)); ok {
			return nil, keyPos, malformed(keyPos, "duplicate dictionary key %q", keyBytes)
		}
		if dec.StrictKeyOrder && prevKey != nil && bytes.Compare(prevKey, keyBytes) >= 0 {
			return nil, keyPos, malformed(keyPos, "dictionary key %q is out of order", keyBytes)
		}
		prevKey = keyBytes

		i = next
		if i >= len(content) {
			return nil, i, truncated(i, "missing value for key %q", keyBytes)
		}
		if content[i] == 'e' {
			return nil, i, malformed(i, "missing value for key %q", keyBytes)
		}
		val, next, err := dec.decodeFrom(content, i, depth)
		if err != nil {
			return nil, next, err
		}
		dict.Set(string(keyBytes), val)
		i = next
	}
}

// RawDictValue scans the dictionary at the start of content and returns the
// bytes of the value stored under key exactly as they appear on the wire.
// The second result is false when the key is absent.
func (dec *Decoder) RawDictValue(content []byte, key string) ([]byte, bool, error) {
	if len(content) == 0 {
		return nil, false, truncated(0, "expected a dictionary, got end of input")
	}
	if content[0] != 'd' {
		return nil, false, malformed(0, "expected a dictionary")
	}
	i := 1
	for {
		if i >= len(content) {
			return nil, false, truncated(i, "unterminated dictionary")
		}
		if content[i] == 'e' {
			return nil, false, nil
		}
		if !isDigit(content[i]) {
			return nil, false, malformed(i, "dictionary key must be a byte string")
		}
		k, start, err := decodeString(content, i)
		if err != nil {
			return nil, false, err
		}
		_, end, err := dec.decodeFrom(content, start, 1)
		if err != nil {
			return nil, false, err
		}
		if k.AsString() == key {
			return content[start:end:end], true, nil
		}
		i = end
	}
}
