package cmd

import (
	"fmt"
	"strings"

	chesscomp "github.com/aix-go/chesscomp"
)

func parseLevel(s string) (chesscomp.CompressionLevel, error) {
	switch strings.ToLower(s) {
	case "low", "naive":
		return chesscomp.Low, nil
	case "medium", "compactindex":
		return chesscomp.Medium, nil
	case "high", "huffman":
		return chesscomp.High, nil
	default:
		return 0, fmt.Errorf("unknown compression level %q (want low, medium or high)", s)
	}
}
