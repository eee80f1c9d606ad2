package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/additive"
	"github.com/mogaika/additive_anim/config"
	"github.com/mogaika/additive_anim/export"
	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/matrix"
	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/status"
	"github.com/mogaika/additive_anim/webutils"
)

var errNoScene = errors.New("no scene loaded")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func currentScene(w http.ResponseWriter) *scene.Scene {
	s := ServerScene()
	if s == nil {
		webutils.WriteError(w, errNoScene)
	}
	return s
}

func HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	if s := currentScene(w); s != nil {
		webutils.WriteJson(w, s.Document())
	}
}

func HandlerAjaxTake(w http.ResponseWriter, r *http.Request) {
	s := currentScene(w)
	if s == nil {
		return
	}
	if td, err := s.TakeDocument(mux.Vars(r)["take"]); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, td)
	}
}

type additiveResult struct {
	Run      string               `json:"run"`
	Base     string               `json:"base"`
	Subtract string               `json:"subtract"`
	Target   string               `json:"target"`
	Range    hierarchy.FrameRange `json:"range"`
	Joints   int                  `json:"joints"`
	Values   []matrix.Euler       `json:"values"`
}

// additiveOptions reads per request overrides from the query over the current config.
func additiveOptions(r *http.Request) (additive.Options, error) {
	q := r.URL.Query()
	c, err := config.GetCurrent().Resolve(config.Flags{
		RootJoint:  q.Get("root"),
		GimbalMode: q.Get("gimbal"),
		KeyTiming:  q.Get("keys"),
	})
	if err != nil {
		return additive.Options{}, err
	}
	opts, err := c.PipelineOptions()
	if err != nil {
		return opts, err
	}
	if first, last := q.Get("first"), q.Get("last"); first != "" || last != "" {
		var rng hierarchy.FrameRange
		if rng.First, err = strconv.Atoi(first); err != nil {
			return opts, errors.Wrapf(err, "param first")
		}
		if rng.Last, err = strconv.Atoi(last); err != nil {
			return opts, errors.Wrapf(err, "param last")
		}
		opts.Range = &rng
	}
	opts.Observer = status.Observer
	return opts, nil
}

func HandlerActionAdditive(w http.ResponseWriter, r *http.Request) {
	s := currentScene(w)
	if s == nil {
		return
	}
	opts, err := additiveOptions(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var res *additive.Result
	err = s.Exclusive(func() error {
		var err error
		res, err = additive.Run(s, opts)
		return err
	})
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, &additiveResult{
		Run:      res.Run,
		Base:     res.Base,
		Subtract: res.Subtract,
		Target:   res.Target,
		Range:    res.Range,
		Joints:   res.Joints,
		Values:   res.Values,
	})
}

func HandlerDumpTake(w http.ResponseWriter, r *http.Request) {
	s := currentScene(w)
	if s == nil {
		return
	}
	take := mux.Vars(r)["take"]
	format := mux.Vars(r)["format"]

	switch format {
	case "json":
		if td, err := s.TakeDocument(take); err != nil {
			webutils.WriteError(w, err)
		} else {
			webutils.WriteJsonFile(w, td, take)
		}
		return
	case "yaml":
		if td, err := s.TakeDocument(take); err != nil {
			webutils.WriteError(w, err)
		} else {
			webutils.WriteYamlFile(w, td, take)
		}
		return
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	name := take + ".fbx"
	if f == export.FormatZip {
		name = take + ".zip"
	}
	var buf bytes.Buffer
	if err := export.WriteFBX(&buf, s, f, name, take); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "export take %q", take))
		return
	}
	webutils.WriteFile(w, &buf, name)
}

func HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	s := currentScene(w)
	if s == nil {
		return
	}
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, "scene.yaml")
}

func HandlerDumpSkeleton(w http.ResponseWriter, r *http.Request) {
	s := currentScene(w)
	if s == nil {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteSkeletonGLB(&buf, s); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, "skeleton.glb")
}

// HandlerUploadScene replaces the served scene with a yaml, json or glTF upload.
func HandlerUploadScene(w http.ResponseWriter, r *http.Request) {
	data, name, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	s, err := scene.Decode(bytes.NewReader(data), name, config.GetCurrent().RootJoint)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "upload %q", name))
		return
	}

	if fps := config.GetCurrent().FPS; fps > 0 {
		s.SetFPS(fps)
	}
	SetServerScene(s)
	status.Info("Loaded scene %q with takes %v", name, s.TakeNames())
	log.Infof("[web] Scene replaced by %q", name)
	webutils.WriteJson(w, s.Document())
}

func HandlerStatusWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("[web] ws upgrade: %v", err)
		return
	}
	status.NewClient(conn)
}
