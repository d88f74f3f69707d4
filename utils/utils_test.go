package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in))
	}
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "short", Abbreviate("short", 10))
	assert.Equal(t, "abcdefg...", Abbreviate("abcdefghijklmnop", 10))
	assert.Equal(t, "世界世...", Abbreviate("世界世界世界世界", 6))
	assert.Equal(t, `"\xff"`, Abbreviate("\xff", 10))
	assert.Equal(t, "abcdef", Abbreviate("abcdef", 2))
}
