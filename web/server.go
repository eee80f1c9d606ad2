package web

import (
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/status"
	"github.com/mogaika/additive_anim/vfs"
)

var (
	serverSceneLock sync.RWMutex
	serverScene     *scene.Scene
)

// ServerDirectory is the scene library, nil when the server has none.
var ServerDirectory vfs.Directory

func ServerScene() *scene.Scene {
	serverSceneLock.RLock()
	defer serverSceneLock.RUnlock()
	return serverScene
}

// SetServerScene serves s; user messages of the scene go to the status feed.
func SetServerScene(s *scene.Scene) {
	if s != nil && s.Notifier == nil {
		s.Notifier = func(title, message string) {
			status.Error("%s: %s", title, message)
		}
	}
	serverSceneLock.Lock()
	serverScene = s
	serverSceneLock.Unlock()
}

func NewRouter(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", HandlerAjaxScene).Methods("GET")
	r.HandleFunc("/json/take/{take}", HandlerAjaxTake).Methods("GET")
	r.HandleFunc("/action/additive", HandlerActionAdditive).Methods("POST")
	r.HandleFunc("/dump/skeleton.glb", HandlerDumpSkeleton).Methods("GET")
	r.HandleFunc("/dump/scene", HandlerDumpScene).Methods("GET")
	r.HandleFunc("/dump/take/{take}/{format}", HandlerDumpTake).Methods("GET")
	r.HandleFunc("/upload/scene", HandlerUploadScene).Methods("POST")
	r.HandleFunc("/json/library", HandlerAjaxLibrary).Methods("GET")
	r.HandleFunc("/action/library/{file}/{action}", HandlerActionLibraryFile).Methods("POST")
	r.HandleFunc("/upload/library/{file}", HandlerUploadLibraryFile).Methods("POST")
	r.HandleFunc("/ws/status", HandlerStatusWs)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	}
	return r
}

func StartServer(addr string, s *scene.Scene, d vfs.Directory, webPath string) error {
	SetServerScene(s)
	ServerDirectory = d

	r := NewRouter(webPath)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
