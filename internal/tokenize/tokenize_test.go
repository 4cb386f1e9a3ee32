package tokenize

import (
	"reflect"
	"testing"
)

func TestTokensSplitsCamelCase(t *testing.T) {
	t.Parallel()
	got := Tokens([]byte("processUserData"))
	want := []string{"process", "user", "data"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens(processUserData) = %v, want %v", got, want)
	}
}

func TestTokensSplitsSnakeAndKebabCase(t *testing.T) {
	t.Parallel()
	got := Tokens([]byte("process_user-data"))
	want := []string{"process", "user", "data"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens(process_user-data) = %v, want %v", got, want)
	}
}

func TestTokensLowercasesAndDropsSingleCharTokens(t *testing.T) {
	t.Parallel()
	got := Tokens([]byte("Go a fun"))
	want := []string{"go", "fun"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens(Go a fun) = %v, want %v", got, want)
	}
}

func TestTokensWithLinesTracksSourceLine(t *testing.T) {
	t.Parallel()
	tokens, lines := TokensWithLines([]byte("package main\n\nfunc processUser() {}\n"))
	idx := -1
	for i, tok := range tokens {
		if tok == "process" {
			idx = i
			break
		}
	}
	if idx == -1 {
		t.Fatalf("expected a 'process' token in %v", tokens)
	}
	if lines[idx] != 3 {
		t.Errorf("line of 'process' = %d, want 3", lines[idx])
	}
}

func TestIsBlank(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"":      true,
		"   ":   true,
		"\t\n":  true,
		"hello": false,
	}
	for input, want := range cases {
		if got := IsBlank(input); got != want {
			t.Errorf("IsBlank(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestTermFreqCounts(t *testing.T) {
	t.Parallel()
	tf := TermFreq([]string{"foo", "bar", "foo"})
	if tf["foo"] != 2 || tf["bar"] != 1 {
		t.Errorf("TermFreq = %v, want foo:2 bar:1", tf)
	}
}
