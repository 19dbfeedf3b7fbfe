package lzss

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrClosed is returned for writes to a closed Encoder or Decoder.
var ErrClosed = errors.New("lzss: write to closed encoder or decoder")

// Encoder converts a byte stream into literals and matches using a finder.
// It owns the text buffer the finder reads. The buffer has room for two
// dictionaries and one maximum match; it slides down by the dictionary size
// as soon as the positions of the first two dictionaries have been added to
// the finder.
//
// By default the encoder uses lazy matching: a match is replaced by a
// literal if the next position has a longer match.
type Encoder struct {
	// Greedy disables lazy matching.
	Greedy bool

	w   TokenWriter
	cfg Config
	f   Finder

	text []byte
	// current position
	pos int
	// end of the data in text
	end int
	// last position added to the finder; -1 if none
	lastPut int

	err error
}

// NewEncoder creates an encoder writing tokens to w.
func NewEncoder(w TokenWriter, cfg Config) (*Encoder, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	e := &Encoder{
		w:    w,
		cfg:  cfg,
		text: make([]byte, TextSize(cfg.DictionarySize, cfg.MaxMatch)),
	}
	var err error
	if e.f, err = cfg.NewFinder(e.text); err != nil {
		return nil, err
	}
	e.lastPut = -1
	return e, nil
}

// Reset restarts the encoder with an empty dictionary writing to w. The
// Greedy flag is kept.
func (e *Encoder) Reset(w TokenWriter) error {
	clear(e.text)
	f, err := e.cfg.NewFinder(e.text)
	if err != nil {
		return err
	}
	*e = Encoder{
		Greedy:  e.Greedy,
		w:       w,
		cfg:     e.cfg,
		f:       f,
		text:    e.text,
		lastPut: -1,
	}
	return nil
}

// Config returns the configuration used by the encoder.
func (e *Encoder) Config() Config { return e.cfg }

// Write encodes p. Positions are only encoded if MaxMatch bytes follow them,
// so tokens for the last bytes are written by Close.
func (e *Encoder) Write(p []byte) (n int, err error) {
	if e.err != nil {
		return 0, e.err
	}
	for len(p) > 0 {
		k := copy(e.text[e.end:], p)
		e.end += k
		n += k
		p = p[k:]
		if err = e.encode(false); err != nil {
			e.err = err
			return n, err
		}
	}
	return n, nil
}

// Close encodes all remaining bytes. It doesn't close the token writer.
func (e *Encoder) Close() error {
	if e.err != nil {
		if e.err == ErrClosed {
			return nil
		}
		return e.err
	}
	if err := e.encode(true); err != nil {
		e.err = err
		return err
	}
	e.err = ErrClosed
	return nil
}

// putUpTo adds the positions before target that have not been added yet,
// as long as enough data follows them.
func (e *Encoder) putUpTo(target int) {
	req := e.f.PutRequires()
	for p := e.lastPut + 1; p < target && e.end-p >= req; p++ {
		e.f.Put(p)
		e.lastPut = p
	}
}

// slide moves the text buffer down by the dictionary size.
func (e *Encoder) slide() {
	d := e.cfg.DictionarySize
	copy(e.text, e.text[d:e.end])
	e.end -= d
	e.pos -= d
	e.lastPut -= d
	e.f.Slide()
	log.Debugf("lzss: encoder slide by %d bytes", d)
}

// clip limits the match to the available data.
func (e *Encoder) clip(m Match, avail int) Match {
	m.Len = min(m.Len, avail)
	if m.Len < e.cfg.Threshold {
		return NoMatch
	}
	return m
}

// find returns the match at the current position and adds the position to
// the finder if possible.
func (e *Encoder) find() Match {
	avail := e.end - e.pos
	var m Match
	if e.lastPut == e.pos-1 && avail >= e.f.PutRequires() {
		m = e.f.SearchAndPut(e.pos)
		e.lastPut = e.pos
	} else {
		m = e.f.Search(e.pos, e.lastPut)
	}
	return e.clip(m, avail)
}

// encode writes tokens for the data in the buffer. Without flush a position
// is only processed if more than MaxMatch bytes are available.
func (e *Encoder) encode(flush bool) error {
	maxMatch := e.cfg.MaxMatch
	for {
		e.putUpTo(e.pos)
		if e.lastPut >= 2*e.cfg.DictionarySize-1 {
			e.slide()
		}
		avail := e.end - e.pos
		if avail == 0 || (!flush && avail <= maxMatch) {
			return nil
		}
		m := e.find()
		if m.Found() && !e.Greedy && m.Len < maxMatch && m.Len < avail {
			n := e.clip(e.f.Search(e.pos+1, e.lastPut), avail-1)
			if n.Len > m.Len {
				m = NoMatch
			}
		}
		if !m.Found() {
			if err := e.w.WriteLiteral(e.text[e.pos]); err != nil {
				return err
			}
			e.pos++
			continue
		}
		if err := e.w.WriteMatch(m.Len, m.Distance(e.pos)); err != nil {
			return err
		}
		e.pos += m.Len
	}
}

// Encode is a convenience function that encodes data and returns the tokens.
func Encode(data []byte, cfg Config) ([]Token, error) {
	var buf TokenBuffer
	e, err := NewEncoder(&buf, cfg)
	if err != nil {
		return nil, err
	}
	if _, err = e.Write(data); err != nil {
		return nil, err
	}
	if err = e.Close(); err != nil {
		return nil, fmt.Errorf("lzss: encode: %w", err)
	}
	return buf.Tokens, nil
}
