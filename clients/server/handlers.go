// handlers.go — JSON API handlers.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/internal/store"
	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/generator"
	"github.com/xob0t/doorstencil/pkg/scene"
	"github.com/xob0t/doorstencil/pkg/texture"
)

// renderRequest is the body of preview, export and texture calls. Every
// field is optional.
type renderRequest struct {
	Config *door.Config `json:"config"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scene.ErrNoImage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, texture.ErrInvalidSize), errors.Is(err, generator.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, texture.ErrAssetLoad):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errorStatus(err), gin.H{"error": err.Error()})
}

// bindRender reads an optional JSON body.
func bindRender(c *gin.Context) (renderRequest, bool) {
	var req renderRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// configFromQuery reads structure/frameColor/glassType/designType query
// parameters; absent or unknown values stay Unknown.
func configFromQuery(c *gin.Context) door.Config {
	var cfg door.Config
	cfg.Structure, _ = door.ParseStructure(c.Query("structure"))
	cfg.FrameColor, _ = door.ParseFrameColor(c.Query("frameColor"))
	cfg.GlassType, _ = door.ParseGlassType(c.Query("glassType"))
	cfg.DesignType, _ = door.ParseDesignType(c.Query("designType"))
	return cfg
}

func sizeOrDefault(w, h, dw, dh int) (int, int, error) {
	if w == 0 {
		w = dw
	}
	if h == 0 {
		h = dh
	}
	if w <= 0 || h <= 0 || w > texture.MaxSize || h > texture.MaxSize {
		return 0, 0, fmt.Errorf("%w: %dx%d", texture.ErrInvalidSize, w, h)
	}
	return w, h, nil
}

// loadScene returns the decoded scene for key, decoding it once.
func (s *Server) loadScene(ctx context.Context, key string) (*scene.Scene, error) {
	if sc, ok := s.scenes.get(key); ok {
		return sc, nil
	}
	c, warnings, err := s.store.GetCapture(ctx, key)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logging.Logger().Warn("capture warning", "key", key, "warning", w)
	}
	sc, err := scene.Open(c)
	if err != nil {
		return nil, err
	}
	s.scenes.put(key, sc)
	return sc, nil
}

func (s *Server) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := generator.Encode(&buf, "jpeg", img, s.cfg.Output.JPEGQuality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ── Health & catalog ──

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, door.Catalog())
}

// ── Captures ──

func (s *Server) handleListCaptures(c *gin.Context) {
	list, err := s.store.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "captures": list})
}

func (s *Server) handleCreateCapture(c *gin.Context) {
	s.saveCapture(c, store.NewKey(), http.StatusCreated)
}

func (s *Server) handlePutCapture(c *gin.Context) {
	s.saveCapture(c, c.Param("id"), http.StatusOK)
}

func (s *Server) saveCapture(c *gin.Context, key string, status int) {
	var capture scene.Capture
	if err := c.ShouldBindJSON(&capture); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if capture.Image == "" {
		abortWithError(c, scene.ErrNoImage)
		return
	}
	if _, err := scene.DecodePhoto(&capture); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.PutCapture(c.Request.Context(), key, &capture); err != nil {
		abortWithError(c, err)
		return
	}
	s.scenes.remove(key)

	warnings := scene.ValidateCapture(&capture)
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(status, gin.H{"id": key, "warnings": warnings})
}

func (s *Server) handleGetCapture(c *gin.Context) {
	r, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", r.Blob)
}

func (s *Server) handleDeleteCapture(c *gin.Context) {
	key := c.Param("id")
	if err := s.store.Delete(c.Request.Context(), key); err != nil {
		abortWithError(c, err)
		return
	}
	s.scenes.remove(key)
	c.Status(http.StatusNoContent)
}

// ── Rendering ──

func (s *Server) handlePreview(c *gin.Context) {
	req, ok := bindRender(c)
	if !ok {
		return
	}
	w, h, err := sizeOrDefault(req.Width, req.Height, s.cfg.Preview.Width, s.cfg.Preview.Height)
	if err != nil {
		abortWithError(c, err)
		return
	}
	sc, err := s.loadScene(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	cfg := sc.Config
	if req.Config != nil {
		cfg = door.Merge(cfg, *req.Config)
	}
	f, err := s.renderer.Preview(c.Request.Context(), sc, cfg, w, h)
	if err != nil {
		abortWithError(c, err)
		return
	}
	data, err := s.encodeJPEG(f.Image)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-Door-Painted", strconv.FormatBool(f.Painted))
	c.Header("X-Fit-Mode", string(f.Layout.Mode))
	c.Data(http.StatusOK, "image/jpeg", data)
}

// handleExport renders at full photo resolution. format is jpeg (default),
// png or dataurl. GET requests take door options from the query string.
func (s *Server) handleExport(c *gin.Context) {
	var override door.Config
	if c.Request.Method == http.MethodPost {
		req, ok := bindRender(c)
		if !ok {
			return
		}
		if req.Config != nil {
			override = *req.Config
		}
	} else {
		override = configFromQuery(c)
	}

	format := c.DefaultQuery("format", "jpeg")
	if format != "jpeg" && format != "png" && format != "dataurl" {
		abortWithError(c, fmt.Errorf("%w %q: use jpeg, png or dataurl", generator.ErrUnsupportedFormat, format))
		return
	}

	sc, err := s.loadScene(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	cfg := door.Merge(sc.Config, override)
	f, err := s.renderer.Export(c.Request.Context(), sc, cfg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-Door-Painted", strconv.FormatBool(f.Painted))

	switch format {
	case "dataurl":
		url, err := generator.DataURL(f.Image, s.cfg.Output.JPEGQuality)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dataUrl": url, "painted": f.Painted})
	case "png":
		var buf bytes.Buffer
		if err := generator.Encode(&buf, "png", f.Image, 0); err != nil {
			abortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	default:
		data, err := s.encodeJPEG(f.Image)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="door.jpg"`)
		c.Data(http.StatusOK, "image/jpeg", data)
	}
}

func (s *Server) handleTexture(c *gin.Context) {
	req, ok := bindRender(c)
	if !ok {
		return
	}
	w, h, err := sizeOrDefault(req.Width, req.Height, s.cfg.Texture.Width, s.cfg.Texture.Height)
	if err != nil {
		abortWithError(c, err)
		return
	}
	cfg := door.DefaultConfig()
	if req.Config != nil {
		cfg = door.Merge(cfg, *req.Config)
	}

	r, err := s.renderer.WithTextureSize(w, h)
	if err != nil {
		abortWithError(c, err)
		return
	}
	img, err := r.Texture(c.Request.Context(), cfg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := generator.Encode(&buf, "png", img, 0); err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// handleQR returns a PNG QR code linking to the capture's JPEG export.
func (s *Server) handleQR(c *gin.Context) {
	key := c.Param("id")
	if _, err := s.store.Get(c.Request.Context(), key); err != nil {
		abortWithError(c, err)
		return
	}

	size := 256
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v >= 64 && v <= 2048 {
		size = v
	}

	base := s.cfg.Server.BaseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	target := base + "/api/captures/" + key + "/export?format=jpeg"
	if c.Request.URL.RawQuery != "" {
		cfg := configFromQuery(c)
		if cfg.Structure != door.StructureUnknown {
			target += "&structure=" + cfg.Structure.Slug()
		}
		if cfg.FrameColor != door.FrameUnknown {
			target += "&frameColor=" + cfg.FrameColor.Slug()
		}
		if cfg.GlassType != door.GlassUnknown {
			target += "&glassType=" + cfg.GlassType.Slug()
		}
		if cfg.DesignType != door.DesignUnknown {
			target += "&designType=" + cfg.DesignType.Slug()
		}
	}

	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-QR-Target", target)
	c.Data(http.StatusOK, "image/png", png)
}
