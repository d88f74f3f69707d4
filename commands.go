package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"bdecode/bencode"
	"bdecode/db"
	"bdecode/db/models"
	"bdecode/torrent"
	"bdecode/utils"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const historyPreviewRunes = 40

type decodeOptions struct {
	MaxDepth int
	Strict   bool
}

func (o decodeOptions) decoderOptions() []bencode.Option {
	return []bencode.Option{
		bencode.WithMaxDepth(o.MaxDepth),
		bencode.WithStrictKeyOrder(o.Strict),
	}
}

// DecodeCommand decodes input, writes its canonical rendering to out and
// records the attempt in history when history is not nil.
func DecodeCommand(input []byte, opts decodeOptions, out io.Writer, history *db.Database) error {
	data, err := bencode.NewDecoder(opts.decoderOptions()...).Decode(input)
	output := ""
	if err == nil {
		output = bencode.Render(data)
	}

	if history != nil {
		if herr := history.RecordDecode(db.NewDecodeRecord(input, output, err)); herr != nil {
			log.Warn().Err(herr).Msg("Could not record decode")
		}
	}

	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, output)
	return err
}

// InfoCommand prints the metainfo summary of the torrent file at path.
func InfoCommand(path string, out io.Writer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tor, err := torrent.TorrentFromBytes(content)
	if err != nil {
		return err
	}
	log.Debug().Str("infohash", tor.InfoHashString()).Msg("Parsed torrent")

	fmt.Fprintf(out, "Torrent: %s\n", path)
	fmt.Fprint(out, tor.String())
	fmt.Fprintln(out, "  Piece Hashes:")
	for _, hash := range tor.Pieces {
		fmt.Fprintf(out, "     %s\n", hash)
	}
	return nil
}

// HistoryCommand lists recent decodes, newest first.
func HistoryCommand(history *db.Database, limit int, onlyFailed bool, out io.Writer) error {
	if history == nil {
		return errors.New("history database is not open")
	}
	records, err := history.RecentDecodes(limit, onlyFailed)
	if err != nil {
		return errors.Wrap(err, "reading history")
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No decodes recorded.")
		return nil
	}
	for _, rec := range records {
		result := rec.Output
		if rec.Error != "" {
			result = rec.Error
		}
		fmt.Fprintf(out, "%d\t%s\t%-9s\t%s\t%s\t%s\n",
			rec.ID,
			rec.CreatedAt.Format(time.RFC3339),
			rec.Status,
			utils.FormatBytes(int64(rec.InputSize)),
			utils.Abbreviate(rec.Preview, historyPreviewRunes),
			utils.Abbreviate(result, historyPreviewRunes),
		)
	}

	counts, err := history.CountByStatus()
	if err != nil {
		return errors.Wrap(err, "counting history")
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	fmt.Fprintf(out, "%d decodes recorded, %d ok\n", total, counts[models.StatusOK])
	return nil
}
