package db

import (
	"path/filepath"
	"strings"
	"testing"

	"bdecode/bencode"
	"bdecode/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func record(t *testing.T, d *Database, input string) {
	t.Helper()
	out, err := bencode.DecodeAndRender([]byte(input))
	require.NoError(t, d.RecordDecode(NewDecodeRecord([]byte(input), out, err)))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		input string
		want  models.DecodeStatus
	}{
		{"i1e", models.StatusOK},
		{"i01e", models.StatusMalformed},
		{"5:man", models.StatusTruncated},
		{"i1ei2e", models.StatusTrailing},
		{strings.Repeat("l", 600) + strings.Repeat("e", 600), models.StatusTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := bencode.DecodeAll([]byte(tt.input))
			assert.Equal(t, tt.want, StatusOf(err))
		})
	}
}

func TestNewDecodeRecord(t *testing.T) {
	input := []byte("l" + strings.Repeat("1:a", 40) + "e")
	rec := NewDecodeRecord(input, "[...]", nil)
	assert.Equal(t, models.StatusOK, rec.Status)
	assert.Equal(t, len(input), rec.InputSize)
	assert.Len(t, rec.Preview, PreviewSize)
	assert.Len(t, rec.InputHash, 40)
	assert.Empty(t, rec.Error)

	_, err := bencode.DecodeAll([]byte("i-0e"))
	rec = NewDecodeRecord([]byte("i-0e"), "", err)
	assert.Equal(t, models.StatusMalformed, rec.Status)
	assert.Contains(t, rec.Error, "negative zero")
}

func TestRecentDecodes(t *testing.T) {
	d := openTestDB(t)

	record(t, d, "5:mango")
	record(t, d, "i-0e")
	record(t, d, "de")
	record(t, d, "5:man")

	all, err := d.RecentDecodes(0, false)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "5:man", all[0].Preview)
	assert.Equal(t, "5:mango", all[3].Preview)
	assert.Equal(t, `"mango"`, all[3].Output)

	limited, err := d.RecentDecodes(2, false)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "de", limited[1].Preview)

	failed, err := d.RecentDecodes(10, true)
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, models.StatusTruncated, failed[0].Status)
	assert.Equal(t, models.StatusMalformed, failed[1].Status)
}

func TestCountByStatus(t *testing.T) {
	d := openTestDB(t)

	record(t, d, "i1e")
	record(t, d, "i2e")
	record(t, d, "i1ei2e")

	counts, err := d.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusOK])
	assert.Equal(t, int64(1), counts[models.StatusTrailing])
	assert.Zero(t, counts[models.StatusMalformed])
}
