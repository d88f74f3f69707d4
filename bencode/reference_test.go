package bencode

import (
	"bytes"
	"testing"

	jackpal "github.com/jackpal/bencode-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The decoded tree must agree with an independent decoder on well-formed,
// canonical input.
func TestDecodeAgreesWithJackpal(t *testing.T) {
	inputs := []string{
		"5:mango",
		"i69640597e",
		"i-17e",
		"l5:applei472ee",
		"lli472e5:appleee",
		"de",
		"d3:foo10:strawberry5:helloi52ee",
		"d10:inner_dictd4:key16:value14:key2i42e8:list_keyl5:item15:item2i3eeee",
		"d8:announce30:http://tracker.example.com/ann4:infod6:lengthi1024e4:name8:file.txt12:piece lengthi512eee",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want, err := jackpal.Decode(bytes.NewReader([]byte(input)))
			require.NoError(t, err)

			got, err := DecodeAll([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, want, got.Interface())
		})
	}
}
