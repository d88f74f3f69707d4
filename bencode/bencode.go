package bencode

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap"
)

type DataType = int

// Types enum
const (
	INVALID DataType = iota
	STRING
	INTEGER
	LIST
	DICT
)

type Data struct {
	Type  DataType
	Value interface{}
}

// Dict is a bencode dictionary. Keys keep the order they were inserted in,
// which for decoded data is the order they appeared on the wire.
type Dict struct {
	m *orderedmap.OrderedMap
}

func NewDict() *Dict {
	return &Dict{m: orderedmap.NewOrderedMap()}
}

// Set stores value under key. It returns false and leaves the dictionary
// untouched if key is already present.
func (d *Dict) Set(key string, value *Data) bool {
	if _, ok := d.m.Get(key); ok {
		return false
	}
	d.m.Set(key, value)
	return true
}

func (d *Dict) Get(key string) (*Data, bool) {
	v, ok := d.m.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Data), true
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, d.m.Len())
	for _, k := range d.m.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

func (d *Dict) Len() int {
	return d.m.Len()
}

func NewData(v any) *Data {
	d := Data{}
	d.SetValueAndType(v)
	return &d
}

func (d *Data) SetValueAndType(val any) {
	switch v := val.(type) {
	case int:
		d.Type, d.Value = INTEGER, big.NewInt(int64(v))
	case int8:
		d.Type, d.Value = INTEGER, big.NewInt(int64(v))
	case int16:
		d.Type, d.Value = INTEGER, big.NewInt(int64(v))
	case int32:
		d.Type, d.Value = INTEGER, big.NewInt(int64(v))
	case int64:
		d.Type, d.Value = INTEGER, big.NewInt(v)
	case uint:
		d.Type, d.Value = INTEGER, new(big.Int).SetUint64(uint64(v))
	case uint8:
		d.Type, d.Value = INTEGER, new(big.Int).SetUint64(uint64(v))
	case uint16:
		d.Type, d.Value = INTEGER, new(big.Int).SetUint64(uint64(v))
	case uint32:
		d.Type, d.Value = INTEGER, new(big.Int).SetUint64(uint64(v))
	case uint64:
		d.Type, d.Value = INTEGER, new(big.Int).SetUint64(v)
	case *big.Int:
		if v == nil {
			d.Type = INVALID
			return
		}
		d.Type, d.Value = INTEGER, new(big.Int).Set(v)
	case []byte:
		d.Type = STRING
		d.Value = v
	case string:
		d.Type = STRING
		d.Value = []byte(v)
	case []interface{}:
		list := make([]*Data, len(v))
		for i, elem := range v {
			list[i] = NewData(elem)
		}
		d.Type = LIST
		d.Value = list
	case []*Data:
		d.Type = LIST
		d.Value = v
	case map[string]interface{}:
		dict := NewDict()
		for _, key := range sortedKeys(v) {
			dict.Set(key, NewData(v[key]))
		}
		d.Type = DICT
		d.Value = dict
	case map[string]*Data:
		dict := NewDict()
		for _, key := range sortedKeys(v) {
			dict.Set(key, v[key])
		}
		d.Type = DICT
		d.Value = dict
	case *Dict:
		d.Type = DICT
		d.Value = v
	default:
		d.Type = INVALID
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (d Data) AsString() string {
	return string(d.Value.([]byte))
}

func (d Data) AsBytes() []byte {
	return d.Value.([]byte)
}

// AsInt returns the integer truncated to int64. Use Int64 when the value may
// not fit.
func (d Data) AsInt() int64 {
	return d.Value.(*big.Int).Int64()
}

// Int64 returns the integer as an int64 or an error if it is out of range.
func (d Data) Int64() (int64, error) {
	n := d.Value.(*big.Int)
	if !n.IsInt64() {
		return 0, fmt.Errorf("integer %s overflows int64", n.String())
	}
	return n.Int64(), nil
}

func (d Data) AsBigInt() *big.Int {
	return d.Value.(*big.Int)
}

func (d Data) AsList() []*Data {
	return d.Value.([]*Data)
}

func (d Data) AsDict() *Dict {
	return d.Value.(*Dict)
}

// Interface converts the value into plain Go values: string, int64 (or
// *big.Int when out of range), []interface{} and map[string]interface{}.
func (d Data) Interface() interface{} {
	switch d.Type {
	case STRING:
		return d.AsString()
	case INTEGER:
		if n, err := d.Int64(); err == nil {
			return n
		}
		return new(big.Int).Set(d.AsBigInt())
	case LIST:
		list := make([]interface{}, 0, len(d.AsList()))
		for _, elem := range d.AsList() {
			list = append(list, elem.Interface())
		}
		return list
	case DICT:
		dict := d.AsDict()
		m := make(map[string]interface{}, dict.Len())
		for _, key := range dict.Keys() {
			elem, _ := dict.Get(key)
			m[key] = elem.Interface()
		}
		return m
	default:
		return nil
	}
}

func (d Data) String() string {
	typeStr := ""
	switch d.Type {
	case STRING:
		typeStr = "STRING"
	case INTEGER:
		typeStr = "NUMBER"
	case LIST:
		typeStr = "LIST"
	case DICT:
		typeStr = "DICT"
	default:
		return "INVALID"
	}
	var sb strings.Builder
	switch d.Type {
	case STRING:
		sb.WriteString(d.AsString())
	case INTEGER:
		sb.WriteString(d.AsBigInt().String())
	case LIST:
		sb.WriteString("[")
		for i, elem := range d.AsList() {
			sb.WriteString(elem.String())
			if i < len(d.AsList())-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString("]")
	case DICT:
		dict := d.AsDict()
		sb.WriteString("{")
		for i, key := range dict.Keys() {
			elem, _ := dict.Get(key)
			sb.WriteString(fmt.Sprintf("%s: %s", key, elem.String()))
			if i < dict.Len()-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString("}")
	}

	return fmt.Sprintf("{Type: %s, Value: %s}", typeStr, sb.String())
}

func (d Data) ToBytes() ([]byte, error) {
	return Encode(&d)
}

// ToJSON returns the canonical text rendering of the value.
func (d Data) ToJSON() string {
	return Render(&d)
}
