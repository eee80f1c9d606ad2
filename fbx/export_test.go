package fbx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportAnimationCurve(t *testing.T) {
	f := NewFbx()
	f.SetFrameRate(30, 0, FrameTime(1, 30))

	model := &Model{Id: f.GenerateId(), Name: "Model::b_Hips", Element: "LimbNode", Version: 232, Shading: true, Culling: "CullingOff"}
	model.Properties70.Add("Lcl Rotation", "Lcl Rotation", "", "A", []float64{0, 0, 0})
	f.Objects.Model = append(f.Objects.Model, model)

	curve := &AnimationCurve{
		Id:            f.GenerateId(),
		Name:          "AnimCurve::",
		Default:       20,
		KeyVer:        4009,
		KeyTime:       []int64{0, FrameTime(1, 30)},
		KeyValueFloat: []float32{20, 20.5},
	}
	f.Objects.AnimationCurve = append(f.Objects.AnimationCurve, curve)
	f.Connect(model.Id, 0)
	f.Connect(curve.Id, model.Id, "Lcl Rotation")
	f.Takes = &Takes{Take: []*Take{{Name: "result", FileName: "result.tak", LocalTime: []int64{0, 1}, ReferenceTime: []int64{0, 1}}}}
	f.CountDefinitions()

	var buf bytes.Buffer
	require.NoError(t, f.Export(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "; FBX 7.4.0 project file"))
	for _, want := range []string{
		"FBXVersion: 7400\n",
		"\tModel: 1000001, \"Model::b_Hips\", \"LimbNode\" {\n",
		"\t\tShading: T\n",
		"P: \"Lcl Rotation\", \"Lcl Rotation\", \"\", \"A\", 0, 0, 0\n",
		"P: \"CustomFrameRate\", \"double\", \"Number\", \"\", 30\n",
		"\t\tKeyTime: *2 {\n\t\t\ta: 0,1539538600\n",
		"\t\t\ta: 20,20.5\n",
		"C: \"OO\", 1000001, 0\n",
		"C: \"OP\", 1000002, 1000001, \"Lcl Rotation\"\n",
		"\tTake: \"result\" {\n\t\tFileName: \"result.tak\"\n\t\tLocalTime: 0, 1\n",
		"Current: \"\"\n",
	} {
		assert.Contains(t, out, want)
	}

	assert.Equal(t, 3, f.Definitions.Count)
	assert.Len(t, f.Definitions.ObjectType, 3)
}

func TestExportZip(t *testing.T) {
	f := NewFbx()
	f.AddExportFile("scene.yaml", []byte("fps: 30\n"))

	var buf bytes.Buffer
	require.NoError(t, f.ExportZip(&buf, "result.fbx"))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := make(map[string]string)
	for _, zf := range zr.File {
		r, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		names[zf.Name] = string(data)
	}
	assert.Contains(t, names, "result.fbx")
	assert.Equal(t, "fps: 30\n", names["scene.yaml"])
}
