package main

import (
	"io"
	"os"

	"bdecode/config"
	"bdecode/db"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

const VERSION = "0.1.0"

type CLI struct {
	Decode struct {
		Value    string `arg:"" help:"Bencoded value to decode."`
		MaxDepth int    `help:"Maximum nesting of lists and dictionaries (0 uses the configured limit)."`
		Strict   bool   `help:"Reject dictionaries whose keys are not sorted."`
	} `cmd:"" help:"Decode a bencoded value and print it as JSON. Set HISTORY=1 to record decodes in DB_PATH."`
	Info struct {
		Torrent string `arg:"" help:"Torrent file to inspect." type:"existingfile"`
	} `cmd:"" help:"Print the metainfo of a torrent file."`
	History struct {
		Limit  int  `help:"Number of entries to show." default:"20"`
		Failed bool `help:"Only show failed decodes."`
	} `cmd:"" help:"List recent decodes."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command line in args, writing results to stdout, and
// returns the process exit code.
func run(args []string, stdout io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("bdecode"),
		kong.Description("Decode bencoded data."),
		kong.UsageOnError(),
		kong.Writers(stdout, os.Stderr),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error building command line parser")
		return 1
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	initLogging()
	defer shutdownLogging()

	var history *db.Database
	switch ctx.Command() {
	case "decode <value>":
		opts := decodeOptions{
			MaxDepth: config.Main.MaxDepth,
			Strict:   config.Main.StrictKeyOrder || cli.Decode.Strict,
		}
		if cli.Decode.MaxDepth > 0 {
			opts.MaxDepth = cli.Decode.MaxDepth
		}
		history = initHistory()
		err = DecodeCommand([]byte(cli.Decode.Value), opts, stdout, history)
		if err != nil {
			log.Error().Err(err).Msg("Error decoding value")
		}
	case "info <torrent>":
		err = InfoCommand(cli.Info.Torrent, stdout)
		if err != nil {
			log.Error().Err(err).Str("path", cli.Info.Torrent).Msg("Error reading torrent")
		}
	case "history":
		history, err = db.Init()
		if err == nil {
			err = HistoryCommand(history, cli.History.Limit, cli.History.Failed, stdout)
		}
		if err != nil {
			log.Error().Err(err).Msg("Error listing history")
		}
	default:
		_ = ctx.PrintUsage(false)
	}

	if history != nil {
		if cerr := history.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Error closing database")
		}
	}
	if err != nil {
		return 1
	}
	return 0
}

// initHistory opens the history database if it is enabled. A failure only
// disables history.
func initHistory() *db.Database {
	if !config.Main.DB.HistoryEnabled {
		return nil
	}
	history, err := db.Init()
	if err != nil {
		log.Warn().Err(err).Str("path", config.Main.DB.Path).Msg("History disabled")
		return nil
	}
	return history
}
