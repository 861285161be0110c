package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
	"github.com/aix-go/chesscomp/query"
)

func queryCmd() *cobra.Command {
	var gameIn, queryIn string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Evaluate a JSON query document against a compressed game",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameData, err := os.ReadFile(gameIn)
			if err != nil {
				return err
			}
			game, err := chesscomp.FromBytes(gameData)
			if err != nil {
				return err
			}

			queryData, err := os.ReadFile(queryIn)
			if err != nil {
				return err
			}
			q, err := query.Parse(queryData)
			if err != nil {
				return err
			}

			result, err := q.Apply(game, position.New())
			if err != nil {
				return err
			}

			log.Debug().Bool("matched", result.Matched).Ints("plies", result.Plies).Msg("query evaluated")

			if result.Matched {
				fmt.Printf("match at plies %v\n", result.Plies)
			} else {
				fmt.Println("no match")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&gameIn, "game", "game.bin", "compressed game blob path")
	cmd.Flags().StringVar(&queryIn, "query", "query.json", "JSON query document path")
	cmd.MarkFlagRequired("game")
	cmd.MarkFlagRequired("query")
	return cmd
}
