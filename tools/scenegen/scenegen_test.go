package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/additive_anim/additive"
)

func testParams() params {
	return params{Seed: 3, Joints: 6, Frames: 10, FPS: 24, Root: "b_Hips", Takes: []string{"add", "ref", "res"}}
}

func TestGenerate(t *testing.T) {
	s, err := generate(testParams())
	require.NoError(t, err)

	assert.Equal(t, 6, s.Root().Count())
	assert.Equal(t, "b_Hips", s.Root().Name)
	assert.Equal(t, []string{"add", "ref", "res"}, s.TakeNames())
	assert.Equal(t, 6*10*3, s.Take("add").KeyCount())
	assert.Equal(t, 0, s.Take("res").KeyCount())

	res, err := additive.Run(s, additive.Options{})
	require.NoError(t, err)
	assert.Len(t, res.Values, 6*10)
	assert.Equal(t, 6*10*3, s.Take("res").KeyCount())
}

func TestGenerateDeterministic(t *testing.T) {
	dump := func() []byte {
		s, err := generate(testParams())
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, s.Save(&buf))
		return buf.Bytes()
	}
	assert.Equal(t, string(dump()), string(dump()))
}

func TestGenerateRejects(t *testing.T) {
	p := testParams()
	p.Frames = 0
	_, err := generate(p)
	assert.Error(t, err)

	p = testParams()
	p.Takes = p.Takes[:2]
	_, err = generate(p)
	assert.Error(t, err)
}
