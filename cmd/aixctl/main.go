// Command aixctl encodes, decodes, recompresses and queries compressed
// chess games from the command line.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aix-go/chesscomp/cmd/aixctl/internal/cmd"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := cmd.Root().Execute(); err != nil {
		log.Fatal().Err(err).Msg("aixctl failed")
	}
}
