package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/additive_anim/scene"
)

const chainYaml = `
fps: 24
loop: {first: 0, last: 1}
skeleton:
  name: b_Hips
  children:
    - name: b_Spine
takes:
  - name: base
    joints:
      b_Spine:
        rotation:
          x: [[0, 30], [1, 30]]
  - name: reference
    joints:
      b_Spine:
        rotation:
          x: [[0, 10]]
  - name: result
`

func serve(t *testing.T) *httptest.Server {
	s, err := scene.Load(strings.NewReader(chainYaml))
	require.NoError(t, err)
	SetServerScene(s)

	srv := httptest.NewServer(NewRouter(""))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAjaxScene(t *testing.T) {
	srv := serve(t)

	resp, err := http.Get(srv.URL + "/json/scene")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc scene.Document
	decode(t, resp, &doc)
	assert.Equal(t, "b_Hips", doc.Skeleton.Name)
	require.Len(t, doc.Takes, 3)
	assert.Equal(t, "reference", doc.Takes[1].Name)
}

func TestActionAdditive(t *testing.T) {
	srv := serve(t)

	resp, err := http.Post(srv.URL+"/action/additive", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Target string       `json:"target"`
		Joints int          `json:"joints"`
		Values [][3]float64 `json:"values"`
	}
	decode(t, resp, &res)
	assert.Equal(t, "result", res.Target)
	assert.Equal(t, 2, res.Joints)
	require.Len(t, res.Values, 4)
	// hips frames first, then spine frames
	assert.InDelta(t, 0, res.Values[0][0], 1e-9)
	assert.InDelta(t, 20, res.Values[2][0], 1e-9)
	assert.InDelta(t, 20, res.Values[3][0], 1e-9)

	resp, err = http.Get(srv.URL + "/json/take/result")
	require.NoError(t, err)
	var td scene.TakeDoc
	decode(t, resp, &td)
	require.Contains(t, td.Joints, "b_Spine")
	require.NotNil(t, td.Joints["b_Spine"].Rotation)
	assert.Len(t, td.Joints["b_Spine"].Rotation.X, 2)
}

func TestActionAdditiveRangeOverride(t *testing.T) {
	srv := serve(t)

	resp, err := http.Post(srv.URL+"/action/additive?first=0&last=0&gimbal=guard", "", nil)
	require.NoError(t, err)
	var res struct {
		Values [][3]float64 `json:"values"`
	}
	decode(t, resp, &res)
	assert.Len(t, res.Values, 2)

	resp, err = http.Post(srv.URL+"/action/additive?first=3&last=1", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/action/additive?gimbal=elif", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAjaxTakeMissing(t *testing.T) {
	srv := serve(t)

	resp, err := http.Get(srv.URL + "/json/take/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e struct {
		Error string `json:"error"`
	}
	decode(t, resp, &e)
	assert.Contains(t, e.Error, "nope")
}

func TestDumpTake(t *testing.T) {
	srv := serve(t)

	resp, err := http.Get(srv.URL + "/dump/take/base/ascii")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="base.fbx"`, resp.Header.Get("Content-Disposition"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "; FBX 7.4.0 project file"))

	resp, err = http.Get(srv.URL + "/dump/take/base/yaml")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "b_Spine")

	resp, err = http.Get(srv.URL + "/dump/take/base/obj")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDumpSkeleton(t *testing.T) {
	srv := serve(t)

	resp, err := http.Get(srv.URL + "/dump/skeleton.glb")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(body[:4]))
}

func TestUploadScene(t *testing.T) {
	srv := serve(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("data", "other.yaml")
	require.NoError(t, err)
	_, err = io.WriteString(fw, strings.Replace(chainYaml, "b_Spine", "b_Chest", -1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/upload/scene", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.NotNil(t, ServerScene().Root().Find("b_Chest"))
}

func TestNoScene(t *testing.T) {
	SetServerScene(nil)
	srv := httptest.NewServer(NewRouter(""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/json/scene")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
