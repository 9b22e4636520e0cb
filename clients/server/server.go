// Package server provides the doorstencil HTTP API, the live preview socket
// and the embedded web page.
package server

import (
	"container/list"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xob0t/doorstencil/internal/config"
	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/internal/store"
	"github.com/xob0t/doorstencil/pkg/scene"
)

//go:embed web/*
var webContent embed.FS

// ── Scene cache ──
//
// Decoding a capture photo dominates request time, so decoded scenes are
// kept per capture key until the capture is replaced or deleted. The cache
// holds at most capacity scenes and evicts the least recently used.

type sceneEntry struct {
	key   string
	scene *scene.Scene
}

type sceneCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

func newSceneCache(capacity int) *sceneCache {
	return &sceneCache{
		capacity: max(capacity, 1),
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (sc *sceneCache) get(key string) (*scene.Scene, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	elem, ok := sc.items[key]
	if !ok {
		return nil, false
	}
	sc.order.MoveToFront(elem)
	return elem.Value.(*sceneEntry).scene, true
}

func (sc *sceneCache) put(key string, s *scene.Scene) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if elem, ok := sc.items[key]; ok {
		elem.Value.(*sceneEntry).scene = s
		sc.order.MoveToFront(elem)
		return
	}
	for sc.order.Len() >= sc.capacity {
		oldest := sc.order.Back()
		sc.order.Remove(oldest)
		delete(sc.items, oldest.Value.(*sceneEntry).key)
	}
	sc.items[key] = sc.order.PushFront(&sceneEntry{key: key, scene: s})
}

func (sc *sceneCache) remove(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if elem, ok := sc.items[key]; ok {
		sc.order.Remove(elem)
		delete(sc.items, key)
	}
}

func (sc *sceneCache) len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.order.Len()
}

// ── Server ──

// Server wires the capture store and the renderer to HTTP.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	renderer *scene.Renderer
	scenes   *sceneCache
	engine   *gin.Engine
}

// New builds the server and its routes.
func New(cfg *config.Config, st *store.Store, r *scene.Renderer) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:      cfg,
		store:    st,
		renderer: r,
		scenes:   newSceneCache(cfg.Server.SceneCache),
		engine:   gin.New(),
	}

	webFS, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	s.engine.Use(gin.Recovery(), requestLogger())
	s.registerRoutes(webFS)
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, open bool) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger().Info("doorstencil server listening", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	if open {
		go openBrowser("http://localhost" + addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logging.Logger().Debug("open browser", "err", err)
	}
}
