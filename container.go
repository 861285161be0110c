/*
container.go frames the three move codecs into a single interchangeable
blob format and drives the encode/decode/recompress operations on top of
a live Position service. Low's blob is its naive records plus a 0x00
terminator byte; Medium and High share a bit-buffer image with the
CompressionLevel tag OR'd into the top two bits of the final byte — the
buffer's own reserveTail keeps those two bits free.
*/

package chesscomp

import (
	"github.com/corentings/chess/v2"

	"github.com/aix-go/chesscomp/internal/position"
)

// EncodedGame is an immutable compressed game blob plus the compression
// level it was built at.
type EncodedGame struct {
	level CompressionLevel
	data  []byte
}

// Level reports which codec produced this blob.
func (g *EncodedGame) Level() CompressionLevel { return g.level }

// IntoBytes returns a copy of the blob's wire representation.
func (g *EncodedGame) IntoBytes() []byte {
	out := make([]byte, len(g.data))
	copy(out, g.data)
	return out
}

// FromBytes reconstructs an EncodedGame from its wire representation,
// validating only what the framing itself can check: emptiness, the
// reserved level-tag value, and Low's terminator/record-alignment shape.
func FromBytes(data []byte) (*EncodedGame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	tag := CompressionLevel(data[len(data)-1] >> 6)
	if tag > High {
		return nil, ErrInvalidCompressionLevel
	}
	if tag == Low {
		if data[len(data)-1] != 0x00 {
			return nil, ErrInvalidData
		}
		if (len(data)-1)%2 != 0 {
			return nil, ErrInvalidData
		}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return &EncodedGame{level: tag, data: out}, nil
}

// Encoder consumes a sequence of legal moves, played one at a time from
// a starting Position, and produces an EncodedGame at a fixed level.
type Encoder struct {
	level CompressionLevel
	pos   *chess.Position
	bb    position.Bitboards
	buf   *bitBuffer
	naive []byte
}

// NewEncoder starts an encode session at level, from start.
func NewEncoder(level CompressionLevel, start *chess.Position) (*Encoder, error) {
	if level > High {
		return nil, ErrInvalidCompressionLevel
	}
	e := &Encoder{level: level, pos: start, bb: position.ComputeBitboards(start)}
	if level != Low {
		e.buf = newBitBuffer()
	}
	return e, nil
}

// Push encodes m, played from the encoder's current position, and
// advances to the position after m.
func (e *Encoder) Push(m chess.Move) error {
	var err error
	switch e.level {
	case Low:
		e.naive = encodeNaive(e.naive, m)
	case Medium:
		err = encodeCompactIndex(e.buf, e.pos, e.bb, m)
	case High:
		err = encodeHuffman(e.buf, e.pos, m)
	}
	if err != nil {
		return err
	}
	e.pos = e.pos.Update(&m)
	e.bb = position.ComputeBitboards(e.pos)
	return nil
}

// Finish seals the session into an EncodedGame.
func (e *Encoder) Finish() (*EncodedGame, error) {
	if e.level == Low {
		data := make([]byte, len(e.naive)+1)
		copy(data, e.naive)
		data[len(data)-1] = 0x00
		return &EncodedGame{level: Low, data: data}, nil
	}
	e.buf.reserveTail()
	raw := e.buf.bytes()
	if len(raw) == 0 {
		raw = []byte{0}
	}
	raw[len(raw)-1] |= byte(e.level) << 6
	return &EncodedGame{level: e.level, data: raw}, nil
}

// Decoder replays an EncodedGame one move at a time against a starting
// Position. Next returns (move, position-after-move, nil) for each ply,
// then (zero move, nil, nil) once the blob is exhausted — the sentinel a
// caller chains replay against. Once Next returns a non-nil error it
// returns the same error on every later call.
type Decoder struct {
	level  CompressionLevel
	pos    *chess.Position
	bb     position.Bitboards
	data   []byte
	bitBuf *bitBuffer
	cursor int
	ply    int
	done   bool
	err    error
}

// NewDecoder starts a decode session over game, replayed from start.
func NewDecoder(game *EncodedGame, start *chess.Position) *Decoder {
	d := &Decoder{level: game.level, pos: start, bb: position.ComputeBitboards(start)}
	switch game.level {
	case Low:
		d.data = game.data[:len(game.data)-1]
	default:
		// reserveTail guarantees the final byte ends with exactly
		// levelTagBits free bits, so this is always the true payload
		// length, never off by the slack a looser pad would leave.
		bitIndex := len(game.data)*8 - levelTagBits
		if bitIndex < 0 {
			bitIndex = 0
		}
		d.bitBuf = bitBufferFromBytes(game.data, bitIndex)
	}
	return d
}

// Next decodes and plays the next move, or signals exhaustion/error.
func (d *Decoder) Next() (chess.Move, *chess.Position, error) {
	if d.err != nil {
		return chess.Move{}, nil, d.err
	}
	if d.done {
		return chess.Move{}, nil, nil
	}

	var m chess.Move
	var err error
	switch d.level {
	case Low:
		if d.cursor >= len(d.data) {
			d.done = true
			return chess.Move{}, nil, nil
		}
		m, err = decodeNaive(d.pos, d.data, d.cursor, d.ply)
		if err == nil {
			d.cursor += 2
		}
	case Medium:
		if d.cursor >= d.bitBuf.bitLen() {
			d.done = true
			return chess.Move{}, nil, nil
		}
		m, err = decodeCompactIndex(d.bitBuf, &d.cursor, d.pos, d.bb, d.ply)
	case High:
		if d.cursor >= d.bitBuf.bitLen() {
			d.done = true
			return chess.Move{}, nil, nil
		}
		m, err = decodeHuffman(d.bitBuf, &d.cursor, d.pos, d.ply)
	}
	if err != nil {
		d.err = err
		return chess.Move{}, nil, err
	}

	d.pos = d.pos.Update(&m)
	d.bb = position.ComputeBitboards(d.pos)
	d.ply++
	return m, d.pos, nil
}

// Recompress decodes game (replayed from start) and re-encodes every
// move at newLevel.
func Recompress(game *EncodedGame, newLevel CompressionLevel, start *chess.Position) (*EncodedGame, error) {
	dec := NewDecoder(game, start)
	enc, err := NewEncoder(newLevel, start)
	if err != nil {
		return nil, err
	}
	for {
		m, pos, err := dec.Next()
		if err != nil {
			return nil, err
		}
		if pos == nil {
			break
		}
		if err := enc.Push(m); err != nil {
			return nil, err
		}
	}
	return enc.Finish()
}
