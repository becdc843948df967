package markov

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// testBehavior stores plain strings, treats a trailing '.' as terminal and
// records every payload it releases.
type testBehavior struct {
	released []string
	copyErr  error
}

func (b *testBehavior) Compare(x, y string) int { return strings.Compare(x, y) }

func (b *testBehavior) Copy(p string) (string, error) {
	if b.copyErr != nil {
		return "", b.copyErr
	}
	return strings.Clone(p), nil
}

func (b *testBehavior) Release(p string) { b.released = append(b.released, p) }

func (b *testBehavior) Print(w io.Writer, p string) error {
	_, err := io.WriteString(w, p)
	return err
}

func (b *testBehavior) IsTerminal(p string) bool { return strings.HasSuffix(p, ".") }

// stringCodec is an identity Codec for string payloads.
type stringCodec struct{}

func (stringCodec) Encode(p string) (string, error) { return p, nil }

func (stringCodec) Decode(s string) (string, error) {
	if s == "" {
		return "", errors.New("empty payload")
	}
	return s, nil
}

// newTestChain creates an empty chain backed by a fresh testBehavior.
// It uses t.Cleanup to ensure the chain is closed.
func newTestChain(t testing.TB, opts ...ChainOption) (*Chain[string], *testBehavior) {
	t.Helper()
	b := &testBehavior{}
	c := NewChain[string](b, opts...)
	t.Cleanup(c.Close)
	return c, b
}

// buildTestChain is a convenience helper that fills a chain from text the way
// the word client does: consecutive words are linked unless the first ends a
// sentence.
func buildTestChain(t testing.TB, text string) *Chain[string] {
	t.Helper()
	c, _ := newTestChain(t)
	var prev NodeID
	havePrev := false
	for _, word := range strings.Fields(text) {
		id, err := c.Add(word)
		if err != nil {
			t.Fatalf("setup: Add(%q) failed: %v", word, err)
		}
		if havePrev && !c.IsTerminal(prev) {
			if err := c.Link(prev, id); err != nil {
				t.Fatalf("setup: Link(%d, %d) failed: %v", prev, id, err)
			}
		}
		prev, havePrev = id, true
	}
	return c
}

// mustFind returns the id of p or fails the test.
func mustFind(t testing.TB, c *Chain[string], p string) NodeID {
	t.Helper()
	id, ok := c.Find(p)
	if !ok {
		t.Fatalf("expected to find %q in chain", p)
	}
	return id
}

// benchmarkCorpus builds a repetitive but branching corpus for benchmarks.
func benchmarkCorpus(sentences int) string {
	var sb strings.Builder
	subjects := []string{"one", "red", "blue", "old", "new"}
	objects := []string{"fish", "cat", "hat", "boat", "goat"}
	for i := 0; i < sentences; i++ {
		sb.WriteString(fmt.Sprintf("%s %s saw %s %s. ",
			subjects[i%len(subjects)], objects[(i/2)%len(objects)],
			subjects[(i/3)%len(subjects)], objects[(i/5)%len(objects)]))
	}
	return sb.String()
}
