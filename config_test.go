package lzss

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	want := Config{
		DictionarySize: 8 * 1024,
		MaxMatch:       256,
		Threshold:      3,
		Finder:         BinaryTree,
		Hash:           HashConfig{Type: LHAHash},
		SearchLimit:    256,
		MaxLevel:       2,
		GrowLoad:       32,
		ShrinkLoad:     8,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("ApplyDefaults mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Verify(); err != nil {
		t.Fatalf("cfg.Verify() error %s", err)
	}
}

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"dictNotPowerOfTwo", Config{DictionarySize: 3000}},
		{"dictTooLarge", Config{DictionarySize: 1 << 29}},
		{"thresholdTooSmall", Config{Threshold: 1}},
		{"thresholdAboveMaxMatch", Config{MaxMatch: 4, Threshold: 5}},
		{"textTooLarge", Config{DictionarySize: 1 << 28, MaxMatch: math.MaxInt32 - 1<<28}},
		{"hashInputAboveMaxMatch", Config{Finder: HashChain, MaxMatch: 2, Threshold: 2}},
		{"searchLimit", Config{Finder: HashChain, SearchLimit: -1}},
		{"maxLevel", Config{Finder: TwoLevelHash, MaxLevel: 5}},
		{"levelAboveMaxMatch", Config{Finder: TwoLevelHash, MaxMatch: 4, MaxLevel: 2}},
		{"shrinkLoad", Config{Finder: TwoLevelHash, ShrinkLoad: -1}},
		{"finder", Config{Finder: 17}},
		{"hash", Config{Hash: HashConfig{Type: PrimeHash, InputLen: 9}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			err := cfg.Verify()
			if err == nil {
				t.Fatalf("cfg.Verify() returned no error for %+v", cfg)
			}
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("cfg.Verify() error %q doesn't wrap ErrConfig", err)
			}
			t.Logf("error %s", err)
		})
	}
}

func TestConfigJSON(t *testing.T) {
	cfg := Config{
		DictionarySize: 4096,
		Finder:         TwoLevelHash,
		Hash:           HashConfig{Type: ShortHash},
		MaxLevel:       3,
	}
	data, err := json.Marshal(&cfg)
	if err != nil {
		t.Fatalf("json.Marshal error %s", err)
	}
	const want = `{"DictionarySize":4096,"Finder":"TwoLevelHash",` +
		`"Hash":{"Type":"Short"},"MaxLevel":3}`
	if string(data) != want {
		t.Fatalf("json.Marshal = %s; want %s", data, want)
	}
	var got Config
	if err = json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal error %s", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("json round trip mismatch (-want +got):\n%s", diff)
	}

	if err = json.Unmarshal([]byte(`{"Finder":"Suffix"}`), &got); err == nil {
		t.Fatalf("json.Unmarshal accepted unknown finder")
	}
}

func TestFinderTypeText(t *testing.T) {
	for _, ft := range FinderTypes {
		text, err := ft.MarshalText()
		if err != nil {
			t.Fatalf("%d.MarshalText() error %s", ft, err)
		}
		var got FinderType
		if err = got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error %s", text, err)
		}
		if got != ft {
			t.Fatalf("UnmarshalText(%q) = %v; want %v", text, got, ft)
		}
	}
	if s := FinderType(0).String(); s != "FinderType(0)" {
		t.Fatalf("FinderType(0).String() = %q; want %q", s, "FinderType(0)")
	}
}

func TestNewFinderTextSize(t *testing.T) {
	cfg := Config{DictionarySize: 1024, MaxMatch: 32}
	_, err := cfg.NewFinder(make([]byte, TextSize(1024, 32)-1))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("NewFinder with short text returned %v; want ErrConfig", err)
	}
	for _, ft := range FinderTypes {
		cfg.Finder = ft
		f, err := cfg.NewFinder(make([]byte, TextSize(1024, 32)))
		if err != nil {
			t.Fatalf("NewFinder(%v) error %s", ft, err)
		}
		if n := f.PutRequires(); !(2 <= n && n <= cfg.MaxMatch) {
			t.Fatalf("%v: PutRequires() = %d; want in [2,%d]",
				ft, n, cfg.MaxMatch)
		}
	}
}
