package ginfile

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{name: "Simple", line: "a=1", wantKey: "a", wantValue: "1", wantOK: true},
		{name: "TrailingNewline", line: "a=1\n", wantKey: "a", wantValue: "1", wantOK: true},
		{name: "InlineCommentKeepsSpace", line: "x=1 # comment", wantKey: "x", wantValue: "1 ", wantOK: true},
		{name: "SplitsOnFirstEquals", line: "train.loss=a=b", wantKey: "train.loss", wantValue: "a=b", wantOK: true},
		{name: "EqualsOnlyInComment", line: "name # a=b", wantOK: false},
		{name: "CommentOnly", line: "# comment", wantOK: false},
		{name: "Blank", line: "", wantOK: false},
		{name: "NoEquals", line: "include 'base.gin'", wantOK: false},
		{name: "WhitespaceKept", line: " k = v ", wantKey: " k ", wantValue: " v ", wantOK: true},
		{name: "EmptyValue", line: "k=", wantKey: "k", wantValue: "", wantOK: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			key, value, ok := ParseLine(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if !ok {
				return
			}
			if key != tc.wantKey || value != tc.wantValue {
				t.Fatalf("expected (%q, %q), got (%q, %q)", tc.wantKey, tc.wantValue, key, value)
			}
		})
	}
}

func TestParseLaterLinesWin(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"# header",
		"a=1",
		"",
		"b=2 # two",
		"a=3",
	}, "\n")

	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
	if a, _ := m.Get("a"); a != "3" {
		t.Fatalf("expected a=3, got %q", a)
	}
	if b, _ := m.Get("b"); b != "2 " {
		t.Fatalf("expected b=%q, got %q", "2 ", b)
	}
}

func TestParseLongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("v", 2<<20)
	m, err := Parse(strings.NewReader("a=1\nk=" + long + "\nb=2"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if v, _ := m.Get("k"); v != long {
		t.Fatalf("expected %d byte value, got %d bytes", len(long), len(v))
	}
	if b, ok := m.Get("b"); !ok || b != "2" {
		t.Fatalf("expected unterminated last line b=2, got %q", b)
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("x2.a1", "['benmal_auc_average', 'benmal_auc_malignant']")
	m.Set("x2.a2", "Train")
	m.Set("x3.a1", "0.01")
	m.Set("empty", "")

	path := filepath.Join(t.TempDir(), "000.gin")
	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if diff := cmp.Diff(m.Keys(), got.Keys()); diff != "" {
		t.Fatalf("round trip key order mismatch (-want +got):\n%s", diff)
	}
	for _, key := range m.Keys() {
		want, _ := m.Get(key)
		if v, ok := got.Get(key); !ok || v != want {
			t.Fatalf("round trip mismatch for %s: expected %q, got %q", key, want, v)
		}
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	if got, want := string(Encode(m)), "a=3\nb=2\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.gin"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestMappingCloneIsIndependent(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("a", "1")
	clone := m.Clone()
	clone.Set("a", "2")
	clone.Set("b", "3")

	if v, _ := m.Get("a"); v != "1" {
		t.Fatalf("source mapping mutated: a=%q", v)
	}
	if m.Len() != 1 {
		t.Fatalf("expected source mapping to keep 1 key, got %d", m.Len())
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "String", value: "Train", want: "Train"},
		{name: "Int", value: 10, want: "10"},
		{name: "Bool", value: true, want: "True"},
		{name: "Nil", value: nil, want: "None"},
		{name: "SmallFloat", value: 1e-2, want: "0.01"},
		{name: "BoundaryFloat", value: 1e-4, want: "0.0001"},
		{name: "TinyFloat", value: 1e-5, want: "1e-05"},
		{name: "IntegralFloat", value: 1.0, want: "1.0"},
		{name: "StringList", value: []string{"a", "b"}, want: "['a', 'b']"},
		{name: "IntList", value: []int{2, 4, 6}, want: "[2, 4, 6]"},
		{name: "EmptyList", value: []any{}, want: "[]"},
		{name: "SingleQuoteSwitchesToDouble", value: []any{"it's"}, want: `["it's"]`},
		{name: "BothQuotes", value: []any{`it's "x"`}, want: `['it\'s "x"']`},
		{name: "EscapedControl", value: []any{"a\tb\\c\n"}, want: `['a\tb\\c\n']`},
		{name: "Dict", value: Dict{{Key: "b", Value: 2}, {Key: "a", Value: Tuple{1, "x"}}}, want: "{'b': 2, 'a': (1, 'x')}"},
		{name: "GoMapSortedByKey", value: map[string]any{"lr": 0.01, "eps": 1e-08}, want: "{'eps': 1e-08, 'lr': 0.01}"},
		{name: "EmptyMap", value: map[string]int{}, want: "{}"},
		{name: "SingleTuple", value: Tuple{1}, want: "(1,)"},
		{
			name: "WeightedLosses",
			value: []any{
				Tuple{"ssim_loss", 0.9},
				Tuple{"l1_loss", 0.095},
				Tuple{"nll_2label_loss", 0.005},
			},
			want: "[('ssim_loss', 0.9), ('l1_loss', 0.095), ('nll_2label_loss', 0.005)]",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatValue(tc.value); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
