package option

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", StringValue("apple"), "apple"},
		{"integer number", NumberValue(2), "2"},
		{"fractional number", NumberValue(2.5), "2.5"},
		{"negative number", NumberValue(-10), "-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_EqualDistinguishesKinds(t *testing.T) {
	assert.True(t, NumberValue(1).Equal(NumberValue(1)))
	assert.True(t, StringValue("1").Equal(StringValue("1")))
	assert.False(t, NumberValue(1).Equal(StringValue("1")))
	assert.False(t, StringValue("a").Equal(StringValue("b")))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, KindNumber, ParseValue("42").Kind())
	assert.Equal(t, 42.0, ParseValue("42").Num())
	assert.Equal(t, KindString, ParseValue("apple").Kind())
	assert.Equal(t, "apple", ParseValue("apple").Str())

	tests := []struct {
		in   string
		kind Kind
	}{
		{"1.5", KindNumber},
		{"-3", KindNumber},
		{"0", KindNumber},
		{"007", KindString},
		{"02134", KindString},
		{"1.50", KindString},
		{"1e3", KindString},
		{"+5", KindString},
		{"NaN", KindString},
		{"Inf", KindString},
		{"-Inf", KindString},
	}
	for _, tt := range tests {
		v := ParseValue(tt.in)
		assert.Equal(t, tt.kind, v.Kind(), "ParseValue(%q)", tt.in)
		assert.Equal(t, tt.in, v.String(), "ParseValue(%q) should print back unchanged", tt.in)
	}
}

func TestValue_UnmarshalYAML(t *testing.T) {
	var got struct {
		A Value `yaml:"a"`
		B Value `yaml:"b"`
		C Value `yaml:"c"`
		D Value `yaml:"d"`
	}
	err := yaml.Unmarshal([]byte("a: 3\nb: \"3\"\nc: 1.5\nd: plain\n"), &got)
	require.NoError(t, err)

	assert.Equal(t, KindNumber, got.A.Kind())
	assert.Equal(t, KindString, got.B.Kind())
	assert.Equal(t, 1.5, got.C.Num())
	assert.Equal(t, "plain", got.D.Str())
}

func TestValue_UnmarshalYAML_RejectsOtherShapes(t *testing.T) {
	for _, doc := range []string{"a: true\n", "a: [1, 2]\n", "a: {x: 1}\n"} {
		var got struct {
			A Value `yaml:"a"`
		}
		err := yaml.Unmarshal([]byte(doc), &got)
		assert.ErrorIs(t, err, ErrInvalidValue, doc)
	}
}

func TestValue_JSON(t *testing.T) {
	data, err := json.Marshal([]Value{StringValue("a"), NumberValue(2)})
	require.NoError(t, err)
	assert.JSONEq(t, `["a", 2]`, string(data))

	var back []Value
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.True(t, back[0].Equal(StringValue("a")))
	assert.True(t, back[1].Equal(NumberValue(2)))

	var bad Value
	assert.ErrorIs(t, json.Unmarshal([]byte(`true`), &bad), ErrInvalidValue)
}

func TestList_FindAndIndexUseIdentity(t *testing.T) {
	a := New("A", NumberValue(1))
	b := New("B", NumberValue(2))
	list := List{a, b}

	assert.Same(t, b, list.Find(NumberValue(2)))
	assert.Nil(t, list.Find(NumberValue(3)))

	assert.Equal(t, 1, list.Index(b))
	lookalike := &Option{Label: "B", Value: NumberValue(2)}
	assert.Equal(t, -1, list.Index(lookalike), "structurally equal option is not a member")
}

func TestList_Resolve(t *testing.T) {
	list := List{New("A", StringValue("a")), New("B", StringValue("b"))}
	found, missing := list.Resolve([]Value{StringValue("b"), StringValue("z"), StringValue("a")})

	require.Len(t, found, 2)
	assert.Same(t, list[1], found[0])
	assert.Same(t, list[0], found[1])
	require.Len(t, missing, 1)
	assert.Equal(t, "z", missing[0].Str())
}

func TestSame(t *testing.T) {
	a, b := New("A", NumberValue(1)), New("B", NumberValue(2))
	assert.True(t, Same(List{a, b}, List{a, b}))
	assert.False(t, Same(List{a, b}, List{b, a}))
	assert.False(t, Same(List{a}, List{a, b}))
	assert.False(t, Same(List{a}, List{New("A", NumberValue(1))}))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "red", CleanLabel("\x1b[31mred\x1b[0m"))
	assert.Equal(t, "a b", CleanLabel("a\tb"))
	assert.Equal(t, "two lines", CleanLabel(" two\nlines "))
	assert.Equal(t, "bad�", CleanLabel("bad\xff"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "…", Truncate("anything", 1))

	got := Truncate("a fairly long label", 8)
	assert.LessOrEqual(t, Width(got), 8)
	assert.True(t, strings.HasSuffix(got, "…"))

	// Wide runes count two columns each.
	wide := Truncate("日本語のラベル", 6)
	assert.LessOrEqual(t, Width(wide), 6)
}

func TestParseLines(t *testing.T) {
	input := `
# fruit
Apple apple
"Green apple" 3
pear
`
	list, err := ParseLines(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "Apple", list[0].Label)
	assert.Equal(t, "apple", list[0].Value.Str())
	assert.Equal(t, "Green apple", list[1].Label)
	assert.Equal(t, 3.0, list[1].Value.Num())
	assert.Equal(t, "pear", list[2].Label)
	assert.Equal(t, "pear", list[2].Value.Str())
}

func TestParseLines_TooManyFields(t *testing.T) {
	_, err := ParseLines(strings.NewReader("one two three\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseLines_UnterminatedQuote(t *testing.T) {
	_, err := ParseLines(strings.NewReader("ok\n\"broken label\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
