package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/matrix"
)

func writeConfig(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0666))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	opts, err := c.PipelineOptions()
	require.NoError(t, err)
	assert.Equal(t, "b_Hips", opts.RootJoint)
	assert.Equal(t, matrix.GimbalCompat, opts.GimbalMode)
	assert.Equal(t, hierarchy.KeysFromZero, opts.KeyTiming)
	assert.Nil(t, opts.Range)
}

func TestLoadFile(t *testing.T) {
	c, err := Load(writeConfig(t, `
root_joint: Root
gimbal_mode: guard
key_timing: frames
loop: {first: 10, last: 20}
fps: 24
export:
  fbx: out.fbx
  fbx_format: binary
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "Root", c.RootJoint)
	assert.Equal(t, 24.0, c.FPS)
	assert.Equal(t, ":8000", c.Server.Addr)
	assert.Equal(t, log.DebugLevel, c.Level())

	opts, err := c.PipelineOptions()
	require.NoError(t, err)
	assert.Equal(t, matrix.GimbalGuard, opts.GimbalMode)
	assert.Equal(t, hierarchy.KeysAtFrames, opts.KeyTiming)
	assert.Equal(t, &hierarchy.FrameRange{First: 10, Last: 20}, opts.Range)
}

func TestLoadRejects(t *testing.T) {
	for _, data := range []string{
		"gimbal_mode: elif\n",
		"key_timing: later\n",
		"loop: {first: 3, last: 1}\n",
		"log_level: loud\n",
		"unknown_field: 1\n",
		"export: {fbx_format: obj}\n",
	} {
		_, err := Load(writeConfig(t, data))
		assert.Errorf(t, err, "config %q", data)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveFlags(t *testing.T) {
	c, err := Default().Resolve(Flags{RootJoint: "Hips", GimbalMode: "guard", FPS: 60, Addr: ":9000"})
	require.NoError(t, err)
	assert.Equal(t, "Hips", c.RootJoint)
	assert.Equal(t, "guard", c.GimbalMode)
	assert.Equal(t, "zero", c.KeyTiming)
	assert.Equal(t, 60.0, c.FPS)
	assert.Equal(t, ":9000", c.Server.Addr)

	_, err = Default().Resolve(Flags{KeyTiming: "sometimes"})
	assert.Error(t, err)
}

func TestCurrent(t *testing.T) {
	defer SetCurrent(Default())
	c := Default()
	c.RootJoint = "Pelvis"
	SetCurrent(c)
	assert.Equal(t, "Pelvis", GetCurrent().RootJoint)
}
