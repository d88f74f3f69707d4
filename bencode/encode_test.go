package bencode

import (
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	huge, _ := new(big.Int).SetString("-42949678300123456789", 10)

	tests := []struct {
		name string
		data *Data
		want string
	}{
		{
			name: "String",
			data: NewData("spam"),
			want: "4:spam",
		},
		{
			name: "Integer",
			data: NewData(42),
			want: "i42e",
		},
		{
			name: "Big integer",
			data: NewData(huge),
			want: "i-42949678300123456789e",
		},
		{
			name: "List",
			data: NewData([]*Data{
				NewData("spam"),
				NewData("eggs"),
			}),
			want: "l4:spam4:eggse",
		},
		{
			name: "Dictionary",
			data: NewData(map[string]*Data{
				"cow":  NewData("moo"),
				"spam": NewData("eggs"),
			}),
			want: "d3:cow3:moo4:spam4:eggse",
		},
		{
			name: "Empty containers",
			data: NewData([]any{[]any{}, map[string]any{}}),
			want: "lledee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncodeSortsDecodedKeys(t *testing.T) {
	data, err := DecodeAll([]byte("d1:bi1e1:ai2ee"))
	require.NoError(t, err)
	encoded, err := data.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, "d1:ai2e1:bi1ee", string(encoded))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"5:mango",
		"0:",
		"i42949678300e",
		"l5:applei472ee",
		"lli472e5:appleee",
		"de",
		"d3:foo10:strawberry5:helloi52ee",
		"d10:inner_dictd4:key16:value14:key2i42e8:list_keyl5:item15:item2i3eeee",
		"3:\x00\xff\n",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			data, err := DecodeAll([]byte(input))
			require.NoError(t, err)
			encoded, err := Encode(data)
			require.NoError(t, err)
			assert.Equal(t, input, string(encoded))
		})
	}
}

func TestStringLengths(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 99, 100, 4096} {
		payload := strings.Repeat("x", n)
		wire := []byte(strings.Join([]string{strconv.Itoa(n), payload}, ":"))

		data, err := DecodeAll(wire)
		require.NoError(t, err)
		assert.Equal(t, payload, data.AsString())
		encoded, err := Encode(data)
		require.NoError(t, err)
		assert.Equal(t, wire, encoded)
	}
}

func TestEncodeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data *Data
	}{
		{"nil", nil},
		{"invalid", NewData(1.5)},
		{"invalid in list", NewData([]*Data{NewData("ok"), NewData(1.5)})},
		{"nil in list", NewData([]*Data{nil})},
		{"invalid in dict", NewData(map[string]any{"a": 1, "b": struct{}{}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.data)
			assert.ErrorIs(t, err, ErrUnencodable)
			assert.Nil(t, got)
		})
	}
}
