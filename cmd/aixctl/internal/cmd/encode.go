package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
)

func encodeCmd() *cobra.Command {
	var movesStr, level, out string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a whitespace-separated list of UCI moves into a compressed blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := parseLevel(level)
			if err != nil {
				return err
			}

			start := position.New()
			enc, err := chesscomp.NewEncoder(lvl, start)
			if err != nil {
				return err
			}

			pos := start
			for _, uci := range strings.Fields(movesStr) {
				m, err := position.ParseUCI(pos, uci)
				if err != nil {
					return err
				}
				if err := enc.Push(m); err != nil {
					return err
				}
				pos = pos.Update(&m)
			}

			game, err := enc.Finish()
			if err != nil {
				return err
			}

			log.Info().Str("level", lvl.String()).Int("bytes", len(game.IntoBytes())).Msg("encoded game")
			return os.WriteFile(out, game.IntoBytes(), 0o644)
		},
	}

	cmd.Flags().StringVar(&movesStr, "moves", "", "space-separated UCI moves, e.g. \"e2e4 e7e5\"")
	cmd.Flags().StringVar(&level, "level", "medium", "compression level: low, medium or high")
	cmd.Flags().StringVar(&out, "out", "game.bin", "output blob path")
	cmd.MarkFlagRequired("moves")
	return cmd
}
