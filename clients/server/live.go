// live.go — WebSocket live preview: the client streams option changes, the
// server debounces them and answers with JPEG frames.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/scene"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the page may be served from another origin during development
	},
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 256,
}

// liveStatus is the text message sent before each frame and on errors.
type liveStatus struct {
	Generation uint64      `json:"generation"`
	Config     door.Config `json:"config"`
	Painted    bool        `json:"painted"`
	Error      string      `json:"error,omitempty"`
}

// liveConn serializes writes to one socket; renders finish on timer
// goroutines.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (lc *liveConn) send(status liveStatus, frame []byte) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := lc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if frame == nil {
		return nil
	}
	return lc.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *Server) handleLivePreview(c *gin.Context) {
	key := c.Param("id")
	sc, err := s.loadScene(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	log := logging.Logger().With("capture", key)
	log.Info("live preview connected")

	lc := &liveConn{conn: conn}
	deb := scene.NewDebouncer(time.Duration(s.cfg.Preview.DebounceMS) * time.Millisecond)
	defer deb.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, h := s.cfg.Preview.Width, s.cfg.Preview.Height
	cfg := sc.Config

	render := func(cfg door.Config, w, h int) {
		deb.Trigger(func(gen uint64) {
			f, err := s.renderer.Preview(ctx, sc, cfg, w, h)
			if gen != deb.Current() {
				log.Debug("stale frame dropped", "generation", gen)
				return
			}
			if err != nil {
				_ = lc.send(liveStatus{Generation: gen, Config: cfg, Error: err.Error()}, nil)
				return
			}
			data, err := s.encodeJPEG(f.Image)
			if err != nil {
				_ = lc.send(liveStatus{Generation: gen, Config: cfg, Error: err.Error()}, nil)
				return
			}
			if err := lc.send(liveStatus{Generation: gen, Config: cfg, Painted: f.Painted}, data); err != nil {
				log.Debug("live preview write", "err", err)
			}
		})
	}

	render(cfg, w, h)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("live preview read", "err", err)
			}
			log.Info("live preview disconnected")
			return
		}

		var req renderRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			_ = lc.send(liveStatus{Config: cfg, Error: "invalid message: " + err.Error()}, nil)
			continue
		}
		if req.Config != nil {
			cfg = door.Merge(cfg, *req.Config)
		}
		if nw, nh, err := sizeOrDefault(req.Width, req.Height, w, h); err == nil {
			w, h = nw, nh
		}
		render(cfg, w, h)
	}
}
