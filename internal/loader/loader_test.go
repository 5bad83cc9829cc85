package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/turingx/internal/primitives"
)

func wantFibonacci(t *testing.T, def primitives.Definition) {
	t.Helper()
	assert.Equal(t, []primitives.State{"q0", "solve_fib", "halt"}, def.States)
	assert.Equal(t, []primitives.Symbol{"1", "0", "B"}, def.Alphabet)
	assert.Equal(t, primitives.Symbol("B"), def.Blank)
	assert.Equal(t, primitives.State("q0"), def.Initial)
	assert.Equal(t, []primitives.State{"halt"}, def.Final)
	assert.Equal(t, map[primitives.Key]primitives.Action{
		{State: "q0", Symbol: "1"}: {Next: "q0", Write: "1", Move: primitives.Right},
		{State: "q0", Symbol: "B"}: {Next: "solve_fib", Write: "B", Move: primitives.Left},
	}, def.Transitions)
	require.NoError(t, def.Validate())
}

func TestLoadFileAllFormatsAgree(t *testing.T) {
	var prints []string
	for _, name := range []string{"fibonacci.tm", "fibonacci.json", "fibonacci.yaml"} {
		t.Run(name, func(t *testing.T) {
			def, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)
			wantFibonacci(t, def)
			prints = append(prints, primitives.Fingerprint(def))
		})
	}
	require.Len(t, prints, 3)
	assert.Equal(t, prints[0], prints[1])
	assert.Equal(t, prints[0], prints[2])
}

func TestParseTextCommentsAndUnknownLines(t *testing.T) {
	src := `
# whole-line comment
states: q0, halt   # inline comment
alphabet: 1,B
blank: B
initial: q0
final: halt
speed: fast
this line has no prefix
transition: q0,1 -> q0,1,r
transition: q0,B -> halt,B,N
`
	def, err := ParseText(strings.NewReader(src), "inline.tm")
	require.NoError(t, err)
	assert.Equal(t, []primitives.State{"q0", "halt"}, def.States)
	assert.Len(t, def.Transitions, 2)
	assert.Equal(t, primitives.Right, def.Transitions[primitives.Key{State: "q0", Symbol: "1"}].Move)
}

func TestParseTextDuplicateLastWins(t *testing.T) {
	src := "transition: q0,1 -> q0,1,R\ntransition: q0,1 -> q1,0,L\n"
	def, err := ParseText(strings.NewReader(src), "dup.tm")
	require.NoError(t, err)
	assert.Equal(t, primitives.Action{Next: "q1", Write: "0", Move: primitives.Left},
		def.Transitions[primitives.Key{State: "q0", Symbol: "1"}])
}

func TestParseTextMalformedTransitions(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"missing arrow", "transition: q0,1 q0,1,R", "missing ->"},
		{"left arity", "transition: q0 -> q0,1,R", "want state,symbol"},
		{"right arity", "transition: q0,1 -> q0,1", "want next,write,move"},
		{"bad move", "transition: q0,1 -> q0,1,X", "invalid move"},
		{"empty write", "transition: q0,1 -> q1,,R", `write symbol "" must be a single character`},
		{"wide read", "transition: q0,11 -> q1,1,R", `read symbol "11" must be a single character`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader("states: q0\n"+tt.line+"\n"), "bad.tm")
			require.Error(t, err)
			assert.True(t, errors.Is(err, primitives.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "bad.tm:2")
		})
	}
}

func TestLoadFileMalformed(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "malformed.tm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed.tm:6")
}

func TestParseJSONDuplicateKeysFileOrder(t *testing.T) {
	src := `{
		"states": ["q0","q1"], "alphabet": ["1","B"], "blank": "B", "initial": "q0", "final": [],
		"transitions": {
			"q0,1": {"new_state": "q0", "write_symbol": "1", "direction": "R"},
			"q0 , 1": {"new_state": "q1", "write_symbol": "B", "direction": "L"}
		}
	}`
	def, err := ParseJSON([]byte(src), "dup.json")
	require.NoError(t, err)
	require.Len(t, def.Transitions, 1)
	assert.Equal(t, primitives.State("q1"), def.Transitions[primitives.Key{State: "q0", Symbol: "1"}].Next)
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"not json", `{"states": [`, "invalid JSON"},
		{"key arity", `{"transitions": {"q0": ["q0","1","R"]}}`, "want state,symbol"},
		{"value arity", `{"transitions": {"q0,1": ["q0","1"]}}`, "want [next, write, move]"},
		{"transitions array", `{"transitions": []}`, "must be an object"},
		{"blank list", `{"blank": ["B","C"]}`, "exactly one value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.src), "bad.json")
			require.Error(t, err)
			assert.True(t, errors.Is(err, primitives.ErrInvalidConfig), "error %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML([]byte("transitions:\n  - q0\n"), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a mapping")

	_, err = ParseYAML([]byte("transitions:\n  \"q0,1\": [q0, \"1\"]\n"), "bad.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, primitives.ErrInvalidConfig))

	def, err := ParseYAML([]byte("states: [q0]\ntransitions:\n"), "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, def.Transitions)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.tm"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, errors.Is(err, primitives.ErrInvalidConfig))

	path := filepath.Join(t.TempDir(), "machine.xml")
	require.NoError(t, os.WriteFile(path, []byte("<tm/>"), 0o644))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown machine format")
}
