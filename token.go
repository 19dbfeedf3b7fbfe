package lzss

import (
	"fmt"
	"math/bits"
)

// TokenWriter consumes the output of the Encoder. It is the boundary to the
// entropy coder of an archive format.
type TokenWriter interface {
	// WriteLiteral writes a single byte that couldn't be matched.
	WriteLiteral(c byte) error
	// WriteMatch writes a back reference. The distance uses the LHA
	// convention: a distance of 0 references the byte directly preceding
	// the current position.
	WriteMatch(length, distance int) error
}

// Token is either a literal or a match. Literal tokens have a zero Len.
type Token struct {
	Len      int
	Distance int
	Literal  byte
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool { return t.Len == 0 }

func (t Token) String() string {
	if t.IsLiteral() {
		return fmt.Sprintf("lit(%q)", t.Literal)
	}
	return fmt.Sprintf("match(%d,%d)", t.Len, t.Distance)
}

// TokenBuffer collects the tokens written to it.
type TokenBuffer struct {
	Tokens []Token
}

func (b *TokenBuffer) WriteLiteral(c byte) error {
	b.Tokens = append(b.Tokens, Token{Literal: c})
	return nil
}

func (b *TokenBuffer) WriteMatch(length, distance int) error {
	b.Tokens = append(b.Tokens, Token{Len: length, Distance: distance})
	return nil
}

// Len returns the number of bytes described by the tokens.
func (b *TokenBuffer) Len() int64 {
	var n int64
	for _, t := range b.Tokens {
		if t.IsLiteral() {
			n++
		} else {
			n += int64(t.Len)
		}
	}
	return n
}

// WriteTo replays all tokens into w.
func (b *TokenBuffer) WriteTo(w TokenWriter) error {
	for _, t := range b.Tokens {
		var err error
		if t.IsLiteral() {
			err = w.WriteLiteral(t.Literal)
		} else {
			err = w.WriteMatch(t.Len, t.Distance)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Reset removes all tokens but keeps the capacity.
func (b *TokenBuffer) Reset() { b.Tokens = b.Tokens[:0] }

// Stats counts the tokens written to it and estimates the size of the
// output of an LHA entropy coder. If W is not nil all tokens are passed on.
type Stats struct {
	W TokenWriter

	Literals     int64
	Matches      int64
	MatchedBytes int64
	// Bits is the estimated number of bits of the encoded tokens.
	Bits int64
}

// The estimate assumes that literals and lengths share an alphabet with
// codes of about 9 bits and that a distance is written as its bit length in
// a code of 4 bits followed by the bits below the top bit.
const (
	symbolBits   = 9
	distCodeBits = 4
)

func (s *Stats) WriteLiteral(c byte) error {
	s.Literals++
	s.Bits += symbolBits
	if s.W != nil {
		return s.W.WriteLiteral(c)
	}
	return nil
}

func (s *Stats) WriteMatch(length, distance int) error {
	s.Matches++
	s.MatchedBytes += int64(length)
	s.Bits += symbolBits + distCodeBits + int64(max(bits.Len(uint(distance))-1, 0))
	if s.W != nil {
		return s.W.WriteMatch(length, distance)
	}
	return nil
}

// Bytes returns the number of input bytes covered by the tokens.
func (s *Stats) Bytes() int64 { return s.Literals + s.MatchedBytes }

// EstimatedSize returns the estimated compressed size in bytes.
func (s *Stats) EstimatedSize() int64 { return (s.Bits + 7) / 8 }

var (
	_ TokenWriter = (*TokenBuffer)(nil)
	_ TokenWriter = (*Stats)(nil)
)
