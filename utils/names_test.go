package utils

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameGeneratorUnique(t *testing.T) {
	g := NewNameGenerator(1, "b_")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := g.Name()
		assert.True(t, strings.HasPrefix(name, "b_"))
		assert.False(t, seen[name], name)
		seen[name] = true
	}
	assert.Equal(t, 100, g.Len())
}

func TestNameGeneratorZeroValue(t *testing.T) {
	var g NameGenerator
	assert.NotEmpty(t, g.Name())
}

func TestSDump(t *testing.T) {
	out := SDump(map[string]int{"b": 2, "a": 1})
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`))
}

func TestDumpOutput(t *testing.T) {
	var buf bytes.Buffer
	DumpOutput = &buf
	defer func() { DumpOutput = os.Stdout }()

	Dump(struct{ Joint string }{"b_Hips"})
	assert.Contains(t, buf.String(), `Joint: (string) (len=6) "b_Hips"`)
}
