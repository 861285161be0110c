package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
)

func recompressCmd() *cobra.Command {
	var in, out, level string

	cmd := &cobra.Command{
		Use:   "recompress",
		Short: "Re-encode a blob at a different compression level",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := parseLevel(level)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			game, err := chesscomp.FromBytes(data)
			if err != nil {
				return err
			}

			recompressed, err := chesscomp.Recompress(game, lvl, position.New())
			if err != nil {
				return err
			}

			log.Info().
				Str("from", game.Level().String()).
				Str("to", recompressed.Level().String()).
				Int("in_bytes", len(data)).
				Int("out_bytes", len(recompressed.IntoBytes())).
				Msg("recompressed game")

			return os.WriteFile(out, recompressed.IntoBytes(), 0o644)
		},
	}

	cmd.Flags().StringVar(&in, "in", "game.bin", "input blob path")
	cmd.Flags().StringVar(&out, "out", "game.out.bin", "output blob path")
	cmd.Flags().StringVar(&level, "level", "high", "target compression level: low, medium or high")
	return cmd
}
