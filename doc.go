/*
Package chesscomp implements a chess-game compression codec: a family of
encoders that turn a sequence of legal chess moves into a compact byte
blob, and decoders that reconstruct the move sequence and the resulting
board positions from that blob.

Three interchangeable levels are supported, from cheapest-to-implement to
most compact: Naive (fixed two bytes per move), CompactIndex (a
variable-width bit stream keyed off the moving piece's role) and Huffman
(an entropy-coded free-slot index). All three share a common container
framing (see EncodedGame) that self-describes which level produced a
given blob and supports recompressing between levels.

The companion package chesscomp/query implements a small pattern-matching
language evaluated against the replay of a decoded game.
*/
package chesscomp
