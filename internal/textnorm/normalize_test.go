package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "MULHOLLAND DRIVE", "mulholland drive"},
		{"diacritics", "Amélie", "amelie"},
		{"diacritics umlaut", "Mühlhoff", "muhlhoff"},
		{"punctuation", "What's Going On?", "what s going"},
		{"stop words", "The Dark Side of the Moon", "dark side moon"},
		{"german articles", "Der Himmel über Berlin", "himmel uber berlin"},
		{"ampersand", "Simon & Garfunkel", "simon garfunkel"},
		{"edition noise", "Abbey Road (Remastered)", "abbey road"},
		{"year noise", "OK Computer [1997 Reissue]", "ok computer"},
		{"whitespace collapse", "  Blood   on the  Tracks ", "blood tracks"},
		{"all stop words keeps text", "The And", "the and"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"MULHOLLAND DRIVE",
		"Amélie",
		"The Dark Side of the Moon",
		"Abbey Road (Remastered)",
		"Simon & Garfunkel",
		"(What's the Story) Morning Glory?",
		"The And",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Coppola, Francis Ford", "francis ford coppola"},
		{"Francis Ford Coppola", "francis ford coppola"},
		{"Mühlhoff, Rainer", "rainer muhlhoff"},
		{"O'Connor, John", "john o connor"},
		{"Jean-Luc Godard", "jean luc godard"},
		{"D. Lynch", "d lynch"},
	}

	for _, tc := range cases {
		if got := NormalizeName(tc.input); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestKey(t *testing.T) {
	a := Key("Mulholland Drive", "David Lynch")
	b := Key("MULHOLLAND DRIVE", "Lynch, David")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}

	c := Key("Mulholland Drive", "")
	if c == a {
		t.Error("key without author should differ from key with author")
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("The Dark Side of the Moon")
	want := []string{"dark", "side", "moon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}
