package web

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/config"
	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/status"
	"github.com/mogaika/additive_anim/vfs"
	"github.com/mogaika/additive_anim/webutils"
)

// SceneExtensions are the files a scene library lists.
var SceneExtensions = []string{".yaml", ".yml", ".json", ".gltf", ".glb"}

var errNoLibrary = errors.New("server started without scene library")

func library(w http.ResponseWriter) vfs.Directory {
	if ServerDirectory == nil {
		webutils.WriteError(w, errNoLibrary)
	}
	return ServerDirectory
}

func HandlerAjaxLibrary(w http.ResponseWriter, r *http.Request) {
	d := library(w)
	if d == nil {
		return
	}
	if files, err := d.List(); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func openLibraryScene(d vfs.Directory, file string) (*scene.Scene, error) {
	data, err := vfs.ReadFile(d, file)
	if err != nil {
		return nil, err
	}
	s, err := scene.Decode(bytes.NewReader(data), file, config.GetCurrent().RootJoint)
	if err != nil {
		return nil, errors.Wrapf(err, "scene '%s'", file)
	}
	if fps := config.GetCurrent().FPS; fps > 0 {
		s.SetFPS(fps)
	}
	return s, nil
}

// HandlerActionLibraryFile opens a library file as the served scene or
// saves the served scene into the library.
func HandlerActionLibraryFile(w http.ResponseWriter, r *http.Request) {
	d := library(w)
	if d == nil {
		return
	}
	file := mux.Vars(r)["file"]
	action := mux.Vars(r)["action"]

	switch action {
	case "open":
		s, err := openLibraryScene(d, file)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		SetServerScene(s)
		status.Info("Opened scene '%s'", file)
		webutils.WriteJson(w, s.Document())
	case "save":
		s := currentScene(w)
		if s == nil {
			return
		}
		var buf bytes.Buffer
		if err := s.Save(&buf); err != nil {
			webutils.WriteError(w, err)
			return
		}
		if err := d.Save(file, &buf); err != nil {
			webutils.WriteError(w, err)
			return
		}
		status.Info("Saved scene '%s'", file)
		webutils.WriteJson(w, file)
	default:
		webutils.WriteError(w, errors.Errorf("Unknown action '%s'", action))
	}
}

func HandlerUploadLibraryFile(w http.ResponseWriter, r *http.Request) {
	d := library(w)
	if d == nil {
		return
	}
	file := mux.Vars(r)["file"]
	data, _, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if err := vfs.WriteFile(d, file, data); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Error when updating library file"))
		return
	}
	log.Infof("[web] Library file '%s' updated, %d bytes", file, len(data))
	webutils.WriteJson(w, file)
}
