package bencode

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Render returns the canonical text form of data: JSON-like, no whitespace,
// dictionary keys in the order they were decoded.
func Render(data *Data) string {
	var sb strings.Builder
	renderValue(&sb, data)
	return sb.String()
}

// RenderTo writes the canonical text form of data to w.
func RenderTo(w io.Writer, data *Data) error {
	bw := bufio.NewWriter(w)
	renderValue(bw, data)
	return bw.Flush()
}

type textWriter interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

func renderValue(w textWriter, data *Data) {
	if data == nil {
		w.WriteString("null")
		return
	}
	switch data.Type {
	case STRING:
		renderString(w, data.AsBytes())
	case INTEGER:
		w.WriteString(data.AsBigInt().String())
	case LIST:
		w.WriteByte('[')
		for i, elem := range data.AsList() {
			if i > 0 {
				w.WriteByte(',')
			}
			renderValue(w, elem)
		}
		w.WriteByte(']')
	case DICT:
		dict := data.AsDict()
		w.WriteByte('{')
		for i, key := range dict.Keys() {
			if i > 0 {
				w.WriteByte(',')
			}
			renderString(w, []byte(key))
			w.WriteByte(':')
			elem, _ := dict.Get(key)
			renderValue(w, elem)
		}
		w.WriteByte('}')
	default:
		w.WriteString("null")
	}
}

// renderString quotes b. Valid UTF-8 is kept as is apart from JSON escapes;
// bytes that are not valid UTF-8 are written as \xHH.
func renderString(w textWriter, b []byte) {
	w.WriteByte('"')
	for len(b) > 0 {
		c := b[0]
		if c < utf8.RuneSelf {
			switch c {
			case '"', '\\':
				w.WriteByte('\\')
				w.WriteByte(c)
			case '\n':
				w.WriteString(`\n`)
			case '\r':
				w.WriteString(`\r`)
			case '\t':
				w.WriteString(`\t`)
			case '\b':
				w.WriteString(`\b`)
			case '\f':
				w.WriteString(`\f`)
			default:
				if c < 0x20 || c == 0x7f {
					w.WriteString(`\u00`)
					w.WriteByte(hexDigits[c>>4])
					w.WriteByte(hexDigits[c&0xf])
				} else {
					w.WriteByte(c)
				}
			}
			b = b[1:]
			continue
		}
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			w.WriteString(`\x`)
			w.WriteByte(hexDigits[c>>4])
			w.WriteByte(hexDigits[c&0xf])
		} else {
			w.Write(b[:size])
		}
		b = b[size:]
	}
	w.WriteByte('"')
}
