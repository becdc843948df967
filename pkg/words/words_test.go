package words

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/CTAG07/markovwalk/pkg/markov"
)

// setupChain creates a word chain filled from text.
// It uses t.Cleanup to ensure the chain is closed.
func setupChain(t *testing.T, text string, maxWords int) *markov.Chain[string] {
	t.Helper()
	chain := markov.NewChain[string](Behavior{})
	t.Cleanup(chain.Close)
	if _, err := Fill(chain, strings.NewReader(text), maxWords, nil); err != nil {
		t.Fatalf("setup: Fill() failed: %v", err)
	}
	return chain
}

func successorTexts(t *testing.T, chain *markov.Chain[string], word string) map[string]int {
	t.Helper()
	id, ok := chain.Find(word)
	if !ok {
		t.Fatalf("word %q not in chain", word)
	}
	edges, _, err := chain.Successors(id)
	if err != nil {
		t.Fatalf("Successors(%q) failed: %v", word, err)
	}
	out := make(map[string]int)
	for _, e := range edges {
		text, _ := chain.Payload(e.To)
		out[text] = e.Count
	}
	return out
}

func TestBehavior(t *testing.T) {
	var b Behavior

	if b.Compare("a", "a") != 0 || b.Compare("a", "b") >= 0 {
		t.Error("Compare does not order tokens lexically")
	}
	if _, err := b.Copy(""); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("expected ErrEmptyWord copying an empty token, got %v", err)
	}
	var buf bytes.Buffer
	if err := b.Print(&buf, "fish,"); err != nil || buf.String() != "fish," {
		t.Errorf("Print wrote %q (err %v)", buf.String(), err)
	}

	terminal := map[string]bool{
		"world.": true,
		".":      true,
		"world":  false,
		"world!": false,
		"e.g":    false,
	}
	for word, want := range terminal {
		if got := b.IsTerminal(word); got != want {
			t.Errorf("IsTerminal(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestStream(t *testing.T) {
	stream := NewStream(strings.NewReader("one  fish\ttwo\r\n\nred fish.\n"))

	var got []Token
	for {
		token, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, *token)
	}

	want := []Token{
		{Text: "one", Line: 1},
		{Text: "fish", Line: 1},
		{Text: "two", Line: 1},
		{Text: "red", Line: 3},
		{Text: "fish.", Line: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected tokens %+v, got %+v", want, got)
	}
}

func TestFill(t *testing.T) {
	chain := setupChain(t, "a b c. a b d.\na b c.", 0)

	if chain.Len() != 4 {
		t.Fatalf("expected 4 distinct words, got %d", chain.Len())
	}
	if got, want := successorTexts(t, chain, "b"), map[string]int{"c.": 2, "d.": 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("successors of b: expected %v, got %v", want, got)
	}
	if got := successorTexts(t, chain, "c."); len(got) != 0 {
		t.Errorf("terminal word should have no successors, got %v", got)
	}
	if got, want := successorTexts(t, chain, "a"), map[string]int{"b": 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("successors of a: expected %v, got %v", want, got)
	}
}

func TestFillDoesNotLinkAcrossLines(t *testing.T) {
	chain := setupChain(t, "a b\nc d.", 0)
	if got := successorTexts(t, chain, "b"); len(got) != 0 {
		t.Errorf("expected no link from the last word of a line, got %v", got)
	}
}

func TestFillMaxWords(t *testing.T) {
	chain := markov.NewChain[string](Behavior{})
	t.Cleanup(chain.Close)

	n, err := Fill(chain, strings.NewReader("a b c d e."), 3, nil)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if n != 3 || chain.Len() != 3 {
		t.Errorf("expected 3 words read and stored, got %d read and %d stored", n, chain.Len())
	}
	if _, ok := chain.Find("d"); ok {
		t.Error("word past the limit was stored")
	}
}

func TestFillCapacityError(t *testing.T) {
	chain := markov.NewChain[string](Behavior{}, markov.WithNodeLimit(2))
	t.Cleanup(chain.Close)

	_, err := Fill(chain, strings.NewReader("a b c."), 0, nil)
	if !errors.Is(err, markov.ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name     string
		corpus   string
		count    int
		maxWords int
		expected string
	}{
		{
			name:     "Stops at sentence end",
			corpus:   "hello world.",
			count:    2,
			maxWords: DefaultMaxWords,
			expected: "Tweet 1: hello world.\nTweet 2: hello world.\n",
		},
		{
			name:     "Stops at max words",
			corpus:   "la la la la la la",
			count:    1,
			maxWords: 4,
			expected: "Tweet 1: la la la la\n",
		},
		{
			name:     "Zero tweets",
			corpus:   "hello world.",
			count:    0,
			maxWords: DefaultMaxWords,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chain := setupChain(t, tc.corpus, 0)
			var buf bytes.Buffer
			if err := Generate(&buf, markov.NewSeededWalker(chain, 42), tc.count, tc.maxWords); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if buf.String() != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, buf.String())
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	chain := setupChain(t, "stop. end.", 0)
	var buf bytes.Buffer

	err := Generate(&buf, markov.NewSeededWalker(chain, 1), 1, DefaultMaxWords)
	if !errors.Is(err, markov.ErrNoStartState) {
		t.Errorf("expected ErrNoStartState, got %v", err)
	}

	if err := Generate(&buf, markov.NewSeededWalker(chain, 1), 1, 0); err == nil {
		t.Error("expected an error for maxWords 0")
	}
}

func TestCodec(t *testing.T) {
	var c Codec
	s, _ := c.Encode("fish.")
	if p, err := c.Decode(s); err != nil || p != "fish." {
		t.Errorf("Decode(Encode(fish.)) = %q, %v", p, err)
	}
	if _, err := c.Decode(""); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("expected ErrEmptyWord, got %v", err)
	}
}
