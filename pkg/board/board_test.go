package board

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/CTAG07/markovwalk/pkg/markov"
)

// setupBoard builds a chain from layout.
// It uses t.Cleanup to ensure the chain is closed.
func setupBoard(t *testing.T, layout *Layout) *markov.Chain[Cell] {
	t.Helper()
	chain, err := Build(layout)
	if err != nil {
		t.Fatalf("setup: Build() failed: %v", err)
	}
	t.Cleanup(chain.Close)
	return chain
}

// successorNumbers returns the cell numbers reachable from cell number n.
func successorNumbers(t *testing.T, chain *markov.Chain[Cell], n int) []int {
	t.Helper()
	id, ok := chain.Find(Cell{Number: n})
	if !ok {
		t.Fatalf("cell %d not in chain", n)
	}
	edges, _, err := chain.Successors(id)
	if err != nil {
		t.Fatalf("Successors(%d) failed: %v", n, err)
	}
	var out []int
	for _, e := range edges {
		if e.Count != 1 {
			t.Errorf("edge %d -> %d has count %d, want 1", n, e.To, e.Count)
		}
		c, _ := chain.Payload(e.To)
		out = append(out, c.Number)
	}
	return out
}

func TestBuildDefaultBoard(t *testing.T) {
	chain := setupBoard(t, DefaultLayout())

	if chain.Len() != 100 {
		t.Fatalf("expected 100 cells, got %d", chain.Len())
	}
	first, _ := chain.Payload(0)
	if first.Number != 1 {
		t.Errorf("expected the first node to be cell 1, got %d", first.Number)
	}

	testCases := []struct {
		cell     int
		expected []int
	}{
		{cell: 1, expected: []int{2, 3, 4, 5, 6, 7}},
		{cell: 13, expected: []int{4}},  // snake
		{cell: 8, expected: []int{30}},  // ladder
		{cell: 96, expected: []int{97, 98, 99, 100}},
		{cell: 99, expected: []int{100}},
		{cell: 100, expected: nil},
	}
	for _, tc := range testCases {
		if got := successorNumbers(t, chain, tc.cell); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("cell %d: expected successors %v, got %v", tc.cell, tc.expected, got)
		}
	}

	s := chain.Stats()
	if s.TerminalNodes != 1 || s.StartingNodes != 99 {
		t.Errorf("expected 1 terminal and 99 starting cells, got %+v", s)
	}
}

func TestPrint(t *testing.T) {
	b := Behavior{Size: 100}
	testCases := []struct {
		cell     Cell
		expected string
	}{
		{cell: Cell{Number: 5, LadderTo: Empty, SnakeTo: Empty}, expected: "[5] ->"},
		{cell: Cell{Number: 8, LadderTo: 30, SnakeTo: Empty}, expected: "[8]-ladder to 30 ->"},
		{cell: Cell{Number: 13, LadderTo: Empty, SnakeTo: 4}, expected: "[13]-snake to 4 ->"},
		{cell: Cell{Number: 100, LadderTo: Empty, SnakeTo: Empty}, expected: "[100]"},
	}
	for _, tc := range testCases {
		var buf bytes.Buffer
		if err := b.Print(&buf, tc.cell); err != nil {
			t.Fatalf("Print failed: %v", err)
		}
		if buf.String() != tc.expected {
			t.Errorf("expected %q, got %q", tc.expected, buf.String())
		}
	}
	if !b.IsTerminal(Cell{Number: 100}) || b.IsTerminal(Cell{Number: 99}) {
		t.Error("only the last cell should be terminal")
	}
}

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name      string
		layout    *Layout
		count     int
		maxLength int
		expected  string
	}{
		{
			name:      "Straight board",
			layout:    &Layout{Size: 3, DiceMax: 1},
			count:     2,
			maxLength: DefaultMaxLength,
			expected:  "Random Walk 1: [1] -> [2] -> [3]\nRandom Walk 2: [1] -> [2] -> [3]\n",
		},
		{
			name:      "Ladder",
			layout:    &Layout{Size: 4, DiceMax: 1, Transitions: []Transition{{From: 1, To: 3}}},
			count:     1,
			maxLength: DefaultMaxLength,
			expected:  "Random Walk 1: [1]-ladder to 3 -> [3] -> [4]\n",
		},
		{
			name:      "Bounded by max length",
			layout:    &Layout{Size: 10, DiceMax: 1},
			count:     1,
			maxLength: 3,
			expected:  "Random Walk 1: [1] -> [2] -> [3] ->\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chain := setupBoard(t, tc.layout)
			var buf bytes.Buffer
			if err := Generate(&buf, markov.NewSeededWalker(chain, 42), tc.count, tc.maxLength); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if buf.String() != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, buf.String())
			}
		})
	}
}

func TestGenerateDefaultBoard(t *testing.T) {
	chain := setupBoard(t, DefaultLayout())
	var buf bytes.Buffer
	if err := Generate(&buf, markov.NewSeededWalker(chain, 7), 10, DefaultMaxLength); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 walks, got %d", len(lines))
	}
	for _, line := range lines {
		_, walk, ok := strings.Cut(line, ": ")
		if !ok || !strings.HasPrefix(walk, "[1] ->") {
			t.Errorf("walk does not start at cell 1: %q", line)
			continue
		}
		cells := strings.Count(walk, "[")
		if cells > DefaultMaxLength {
			t.Errorf("walk visits %d cells, more than %d", cells, DefaultMaxLength)
		}
		if cells < DefaultMaxLength && !strings.HasSuffix(walk, "[100]") {
			t.Errorf("short walk does not end at the last cell: %q", walk)
		}
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	data := "size: 10\ndice_max: 2\ntransitions:\n  - {from: 3, to: 7}\n  - {from: 9, to: 2}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	layout, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	want := &Layout{Size: 10, DiceMax: 2, Transitions: []Transition{{From: 3, To: 7}, {From: 9, To: 2}}}
	if !reflect.DeepEqual(layout, want) {
		t.Errorf("expected %+v, got %+v", want, layout)
	}

	cells := layout.Cells()
	if cells[2].LadderTo != 7 || cells[8].SnakeTo != 2 {
		t.Errorf("transitions not applied to cells: %+v %+v", cells[2], cells[8])
	}
}

func TestLoadLayoutKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte("dice_max: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	layout, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if layout.Size != 100 || layout.DiceMax != 4 || len(layout.Transitions) != 20 {
		t.Errorf("unexpected layout %+v", layout)
	}
}

func TestLoadLayoutErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLayout(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("size: [oops\n"), 0644)
	if _, err := LoadLayout(bad); err == nil {
		t.Error("expected an error for malformed yaml")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	_ = os.WriteFile(invalid, []byte("size: 1\n"), 0644)
	if _, err := LoadLayout(invalid); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		layout Layout
	}{
		{name: "Too small", layout: Layout{Size: 1, DiceMax: 6}},
		{name: "No die", layout: Layout{Size: 10, DiceMax: 0}},
		{name: "Off the board", layout: Layout{Size: 10, DiceMax: 6, Transitions: []Transition{{From: 3, To: 11}}}},
		{name: "Zero cell", layout: Layout{Size: 10, DiceMax: 6, Transitions: []Transition{{From: 0, To: 5}}}},
		{name: "Self transition", layout: Layout{Size: 10, DiceMax: 6, Transitions: []Transition{{From: 4, To: 4}}}},
		{name: "From last cell", layout: Layout{Size: 10, DiceMax: 6, Transitions: []Transition{{From: 10, To: 1}}}},
		{name: "Duplicate source", layout: Layout{Size: 10, DiceMax: 6, Transitions: []Transition{{From: 4, To: 8}, {From: 4, To: 1}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.layout.Validate(); !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("expected ErrInvalidLayout, got %v", err)
			}
			if _, err := Build(&tc.layout); !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Build: expected ErrInvalidLayout, got %v", err)
			}
		})
	}

	if err := DefaultLayout().Validate(); err != nil {
		t.Errorf("default layout is invalid: %v", err)
	}
}

func TestBuildCapacityError(t *testing.T) {
	_, err := Build(DefaultLayout(), markov.WithNodeLimit(10))
	if !errors.Is(err, markov.ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
}

func TestCodec(t *testing.T) {
	var c Codec
	cell := Cell{Number: 8, LadderTo: 30, SnakeTo: Empty}
	text, err := c.Encode(cell)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := c.Decode(text)
	if err != nil || got != cell {
		t.Errorf("Decode(Encode(%+v)) = %+v, %v", cell, got, err)
	}
	for _, bad := range []string{"{", `{"number":0}`} {
		if _, err := c.Decode(bad); err == nil {
			t.Errorf("expected an error decoding %q", bad)
		}
	}
}
