package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
)

func decodeCmd() *cobra.Command {
	var in string
	var san bool

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a compressed blob back into its move sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			game, err := chesscomp.FromBytes(data)
			if err != nil {
				return err
			}
			start := position.New()

			log.Debug().Str("level", game.Level().String()).Msg("decoding game")

			var out string
			if san {
				out, err = chesscomp.SANString(game, start)
			} else {
				out, err = chesscomp.UCIString(game, start)
			}
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "game.bin", "input blob path")
	cmd.Flags().BoolVar(&san, "san", false, "render moves in SAN instead of UCI")
	cmd.MarkFlagRequired("in")
	return cmd
}
