package lzss

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func checkTokens(t *testing.T, tokens []Token, cfg Config) {
	t.Helper()
	for i, tok := range tokens {
		if tok.IsLiteral() {
			continue
		}
		if !(cfg.Threshold <= tok.Len && tok.Len <= cfg.MaxMatch) {
			t.Fatalf("token %d: %v; length out of range [%d,%d]",
				i, tok, cfg.Threshold, cfg.MaxMatch)
		}
		if !(0 <= tok.Distance && tok.Distance < cfg.DictionarySize) {
			t.Fatalf("token %d: %v; distance out of range [0,%d)",
				i, tok, cfg.DictionarySize)
		}
	}
}

// encodeChunks encodes data by writing chunks of the given size.
func encodeChunks(t *testing.T, data []byte, cfg Config, greedy bool, chunk int) []Token {
	t.Helper()
	var buf TokenBuffer
	e, err := NewEncoder(&buf, cfg)
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	e.Greedy = greedy
	for p := data; len(p) > 0; {
		k := min(chunk, len(p))
		n, err := e.Write(p[:k])
		if err != nil {
			t.Fatalf("e.Write error %s", err)
		}
		if n != k {
			t.Fatalf("e.Write returned %d; want %d", n, k)
		}
		p = p[k:]
	}
	if err = e.Close(); err != nil {
		t.Fatalf("e.Close error %s", err)
	}
	return buf.Tokens
}

func decodeTokens(t *testing.T, tokens []Token, dictSize int) []byte {
	t.Helper()
	var out bytes.Buffer
	d, err := NewDecoder(&out, dictSize)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	buf := TokenBuffer{Tokens: tokens}
	if err = buf.WriteTo(d); err != nil {
		t.Fatalf("decode error %s", err)
	}
	if err = d.Close(); err != nil {
		t.Fatalf("d.Close error %s", err)
	}
	return out.Bytes()
}

func TestEncoderRoundTrip(t *testing.T) {
	for _, m := range Methods() {
		if testing.Short() && m.ID != "-lh5-" && m.ID != "-lzs-" {
			continue
		}
		data := testData(int64(m.DictionarySize), 3*m.DictionarySize+777)
		for _, ft := range FinderTypes {
			for _, greedy := range []bool{false, true} {
				name := fmt.Sprintf("%v/%v/greedy=%t", m, ft, greedy)
				t.Run(name, func(t *testing.T) {
					cfg := m.Config(ft)
					tokens := encodeChunks(t, data, cfg, greedy, 1000)
					checkTokens(t, tokens, cfg)
					got := decodeTokens(t, tokens, cfg.DictionarySize)
					if !bytes.Equal(got, data) {
						t.Fatalf("decoded data differs from input")
					}
					if 3*len(tokens) >= 2*len(data) {
						t.Fatalf("%d tokens for %d bytes; expected compression",
							len(tokens), len(data))
					}
				})
			}
		}
	}
}

func TestEncoderChunkSizes(t *testing.T) {
	cfg := testConfig(HashChain)
	data := testData(41, 20*cfg.DictionarySize)
	for _, chunk := range []int{1, 7, 16, 17, 64, 200} {
		t.Run(fmt.Sprint(chunk), func(t *testing.T) {
			got := encodeChunks(t, data, cfg, false, chunk)
			checkTokens(t, got, cfg)
			if !bytes.Equal(decodeTokens(t, got, cfg.DictionarySize), data) {
				t.Fatalf("decoded data differs from input")
			}
		})
	}
}

func TestEncoderLazy(t *testing.T) {
	data := []byte("abcXbcdefYabcdefZ")
	lit := func(s string) []Token {
		var a []Token
		for _, c := range []byte(s) {
			a = append(a, Token{Literal: c})
		}
		return a
	}
	lazy := append(lit("abcXbcdefYa"), Token{Len: 5, Distance: 6})
	lazy = append(lazy, lit("Z")...)
	greedy := append(lit("abcXbcdefY"), Token{Len: 3, Distance: 9},
		Token{Len: 3, Distance: 6})
	greedy = append(greedy, lit("Z")...)

	m, err := LookupMethod("-lh5-")
	if err != nil {
		t.Fatalf("LookupMethod error %s", err)
	}
	for _, ft := range FinderTypes {
		t.Run(ft.String(), func(t *testing.T) {
			cfg := m.Config(ft)
			got := encodeChunks(t, data, cfg, false, len(data))
			if diff := cmp.Diff(lazy, got); diff != "" {
				t.Fatalf("lazy tokens mismatch (-want +got):\n%s", diff)
			}
			got = encodeChunks(t, data, cfg, true, len(data))
			if diff := cmp.Diff(greedy, got); diff != "" {
				t.Fatalf("greedy tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncoderReset(t *testing.T) {
	cfg := testConfig(TwoLevelHash)
	data := testData(43, 10*cfg.DictionarySize)
	var buf1, buf2 TokenBuffer
	e, err := NewEncoder(&buf1, cfg)
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if _, err = e.Write(data); err != nil {
		t.Fatalf("e.Write error %s", err)
	}
	if err = e.Close(); err != nil {
		t.Fatalf("e.Close error %s", err)
	}
	if _, err = e.Write(data); !errors.Is(err, ErrClosed) {
		t.Fatalf("e.Write after Close returned %v; want ErrClosed", err)
	}
	if err = e.Close(); err != nil {
		t.Fatalf("second e.Close error %s", err)
	}

	if err = e.Reset(&buf2); err != nil {
		t.Fatalf("e.Reset error %s", err)
	}
	if _, err = e.Write(data); err != nil {
		t.Fatalf("e.Write error %s", err)
	}
	if err = e.Close(); err != nil {
		t.Fatalf("e.Close error %s", err)
	}
	if diff := cmp.Diff(buf1.Tokens, buf2.Tokens); diff != "" {
		t.Fatalf("tokens after Reset mismatch (-want +got):\n%s", diff)
	}
}

var errTest = errors.New("test error")

// failingWriter returns an error after n tokens.
type failingWriter struct {
	n int
}

func (w *failingWriter) WriteLiteral(c byte) error {
	if w.n--; w.n < 0 {
		return errTest
	}
	return nil
}

func (w *failingWriter) WriteMatch(length, distance int) error {
	if w.n--; w.n < 0 {
		return errTest
	}
	return nil
}

func TestEncoderWriterError(t *testing.T) {
	cfg := testConfig(BinaryTree)
	e, err := NewEncoder(&failingWriter{n: 10}, cfg)
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	data := testData(47, 10*cfg.DictionarySize)
	if _, err = e.Write(data); !errors.Is(err, errTest) {
		t.Fatalf("e.Write returned %v; want %v", err, errTest)
	}
	if err = e.Close(); !errors.Is(err, errTest) {
		t.Fatalf("e.Close returned %v; want %v", err, errTest)
	}
}

func TestEncode(t *testing.T) {
	data := bytes.Repeat([]byte("Hello, world! "), 100)
	tokens, err := Encode(data, Config{})
	if err != nil {
		t.Fatalf("Encode error %s", err)
	}
	if got := decodeTokens(t, tokens, 8*1024); !bytes.Equal(got, data) {
		t.Fatalf("decoded data differs from input")
	}
	if _, err = Encode(data, Config{DictionarySize: 1000}); !errors.Is(err, ErrConfig) {
		t.Fatalf("Encode with invalid config returned %v; want ErrConfig", err)
	}
}

func FuzzEncoder(f *testing.F) {
	f.Add([]byte("abcabcabcX"), uint8(0))
	f.Add(bytes.Repeat([]byte("ab"), 200), uint8(1))
	f.Add(testData(53, 1000), uint8(2))
	f.Add([]byte{}, uint8(3))
	f.Fuzz(func(t *testing.T, data []byte, n uint8) {
		ft := FinderTypes[int(n)%len(FinderTypes)]
		cfg := testConfig(ft)
		tokens := encodeChunks(t, data, cfg, n&4 != 0, 1+int(n))
		checkTokens(t, tokens, cfg)
		got := decodeTokens(t, tokens, cfg.DictionarySize)
		if !bytes.Equal(got, data) {
			t.Fatalf("decoded %q; want %q", got, data)
		}
	})
}
