package strbuf

import (
	"errors"
	"testing"
)

func TestReplace(t *testing.T) {
	var b Buffer
	pairs := []Pair{
		{"%a", "aaaaaaaa"},
		{"%b", "bbb"},
		{"%c", "REPLACEMENT FOR C"},
	}
	b.PutString("one two %a three four %b five six %c seven")
	if err := b.Replace(pairs); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	want := "one two aaaaaaaa three four bbb five six REPLACEMENT FOR C seven"
	if got := b.String(); got != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}
	if b.Terminated()[b.Len()] != 0 {
		t.Error("missing terminator after Replace")
	}
	b.Dispose()
}

func TestReplaceRules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pairs []Pair
		want  string
	}{
		{"no match", "plain text", []Pair{{"%x", "y"}}, "plain text"},
		{"shrink", "aaaa", []Pair{{"aa", "b"}}, "bb"},
		{"no rescan", "ab", []Pair{{"a", "ab"}, {"b", "c"}}, "abc"},
		{"first listed wins", "%ab", []Pair{{"%a", "1"}, {"%ab", "2"}}, "1b"},
		{"longer listed first", "%ab", []Pair{{"%ab", "2"}, {"%a", "1"}}, "2"},
		{"advance by pattern", "aaa", []Pair{{"aa", "x"}}, "xa"},
		{"to empty", "a-b-c", []Pair{{"-", ""}}, "abc"},
		{"empty input", "", []Pair{{"a", "b"}}, ""},
		{"no pairs", "abc", nil, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Buffer
			b.PutString(tt.input)
			if err := b.Replace(tt.pairs); err != nil {
				t.Fatalf("Replace failed: %v", err)
			}
			if got := b.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReplaceAll(t *testing.T) {
	var b Buffer
	b.PutString("$HOME/$USER")
	if err := b.ReplaceAll("$HOME", "/home/git", "$USER", "git"); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if b.String() != "/home/git/git" {
		t.Errorf("unexpected result %q", b.String())
	}
}

func TestReplaceEmptyPattern(t *testing.T) {
	var b Buffer
	b.PutString("abc")
	err := b.Replace([]Pair{{"b", "x"}, {"", "y"}})
	if !errors.Is(err, ErrEmptyPattern) {
		t.Fatalf("Expected ErrEmptyPattern, got %v", err)
	}
	if b.OOM() || b.String() != "abc" {
		t.Errorf("invalid pattern touched the buffer: %q oom=%v", b.String(), b.OOM())
	}
}

func TestReplaceFailureIsAtomic(t *testing.T) {
	b := New(WithAllocator(&Limit{Max: 32}))
	b.PutString("x %a y %a z")
	err := b.Replace([]Pair{{"%a", "a very long replacement text"}})
	if !errors.Is(err, ErrOOM) {
		t.Fatalf("Expected ErrOOM, got %v", err)
	}
	if !b.OOM() {
		t.Error("failure flag not set")
	}
	if b.String() != "x %a y %a z" {
		t.Errorf("partial replacement observable: %q", b.String())
	}
}
