package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xob0t/doorstencil/internal/config"
	"github.com/xob0t/doorstencil/internal/store"
	"github.com/xob0t/doorstencil/pkg/generator"
	"github.com/xob0t/doorstencil/pkg/scene"
	"github.com/xob0t/doorstencil/pkg/warp"
)

func testConfig() *config.Config {
	var c config.Config
	c.Server.Port = 8080
	c.Server.SceneCache = 2
	c.Texture.Width, c.Texture.Height = 120, 240
	c.Preview.Width, c.Preview.Height = 80, 60
	c.Preview.Background = "#000000"
	c.Output.JPEGQuality = 85
	return &c
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := testConfig()
	r := &scene.Renderer{TextureW: cfg.Texture.Width, TextureH: cfg.Texture.Height}
	s, err := New(cfg, st, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func sampleCapture(t *testing.T) *scene.Capture {
	t.Helper()
	url, err := generator.EncodeDataURL(generator.NewSolidImage(80, 60, color.RGBA{30, 30, 30, 255}), "png", 0)
	if err != nil {
		t.Fatal(err)
	}
	return &scene.Capture{
		Quad:  []warp.Point{{X: 0.3, Y: 0.1}, {X: 0.7, Y: 0.1}, {X: 0.7, Y: 0.9}, {X: 0.3, Y: 0.9}},
		Image: url,
	}
}

func createCapture(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/captures", sampleCapture(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID       string   `json:"id"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" || len(resp.Warnings) != 0 {
		t.Fatalf("create response = %+v", resp)
	}
	return resp.ID
}

func TestHealthAndCatalog(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/api/health", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/catalog", nil)
	var cat struct {
		Structure []struct{ Label, Slug string } `json:"structure"`
		GlassType []struct{ Label, Slug string } `json:"glassType"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cat); err != nil {
		t.Fatal(err)
	}
	if len(cat.Structure) != 7 || len(cat.GlassType) != 14 {
		t.Errorf("catalog sizes = %d, %d", len(cat.Structure), len(cat.GlassType))
	}
}

func TestCaptureLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := createCapture(t, s)

	if rec := do(t, s, http.MethodGet, "/api/captures/"+id, nil); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/captures", nil)
	if !strings.Contains(rec.Body.String(), id) {
		t.Errorf("list does not contain %s: %s", id, rec.Body)
	}

	if rec := do(t, s, http.MethodDelete, "/api/captures/"+id, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/captures/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/captures/"+id+"/preview", nil); rec.Code != http.StatusNotFound {
		t.Errorf("preview after delete status = %d", rec.Code)
	}
}

func TestPutWellKnownKey(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/captures/"+scene.CaptureKey, sampleCapture(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, http.MethodGet, "/api/captures/"+scene.CaptureKey, nil); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
}

func TestCreateCaptureRejects(t *testing.T) {
	s := newTestServer(t)

	noImage := sampleCapture(t)
	noImage.Image = ""
	if rec := do(t, s, http.MethodPost, "/api/captures", noImage); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no image status = %d", rec.Code)
	}

	badImage := sampleCapture(t)
	badImage.Image = "data:image/png;base64,AAAA"
	if rec := do(t, s, http.MethodPost, "/api/captures", badImage); rec.Code != http.StatusBadRequest {
		t.Errorf("bad image status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/captures", strings.NewReader(`{"quad":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d", rec.Code)
	}
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	id := createCapture(t, s)

	body := map[string]any{
		"config": map[string]string{"structure": "3연동", "frameColor": "black", "glassType": "투명", "designType": "grid"},
		"width":  40,
		"height": 30,
	}
	rec := do(t, s, http.MethodPost, "/api/captures/"+id+"/preview", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Header().Get("X-Door-Painted") != "true" {
		t.Error("door not painted")
	}
	if rec.Header().Get("X-Fit-Mode") != "cover" {
		t.Errorf("fit mode = %q", rec.Header().Get("X-Fit-Mode"))
	}

	big := map[string]any{"width": 100000, "height": 10}
	if rec := do(t, s, http.MethodPost, "/api/captures/"+id+"/preview", big); rec.Code != http.StatusBadRequest {
		t.Errorf("oversized preview status = %d", rec.Code)
	}
}

func TestExportFormats(t *testing.T) {
	s := newTestServer(t)
	id := createCapture(t, s)

	rec := do(t, s, http.MethodGet, "/api/captures/"+id+"/export?format=png&structure=swing", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("png export status = %d: %s", rec.Code, rec.Body)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("export bounds = %v, want full photo 80x60", b)
	}

	rec = do(t, s, http.MethodPost, "/api/captures/"+id+"/export?format=dataurl", nil)
	var resp struct {
		DataURL string `json:"dataUrl"`
		Painted bool   `json:"painted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.DataURL, "data:image/jpeg;base64,") || !resp.Painted {
		t.Errorf("dataurl export = %.40s painted=%v", resp.DataURL, resp.Painted)
	}

	rec = do(t, s, http.MethodGet, "/api/captures/"+id+"/export", nil)
	if ct := rec.Header().Get("Content-Type"); rec.Code != http.StatusOK || ct != "image/jpeg" {
		t.Errorf("jpeg export = %d %q", rec.Code, ct)
	}

	if rec := do(t, s, http.MethodGet, "/api/captures/"+id+"/export?format=gif", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("gif export status = %d", rec.Code)
	}
}

func TestTexture(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/texture", map[string]any{"width": 60, "height": 120})
	if rec.Code != http.StatusOK {
		t.Fatalf("texture status = %d: %s", rec.Code, rec.Body)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 120 {
		t.Errorf("texture bounds = %v", b)
	}

	if rec := do(t, s, http.MethodPost, "/api/texture", map[string]any{"width": -1}); rec.Code != http.StatusBadRequest {
		t.Errorf("negative width status = %d", rec.Code)
	}
}

func TestQR(t *testing.T) {
	s := newTestServer(t)
	id := createCapture(t, s)

	rec := do(t, s, http.MethodGet, "/api/captures/"+id+"/qr?size=128&glassType=aqua", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("qr status = %d: %s", rec.Code, rec.Body)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("qr is not a PNG")
	}
	target := rec.Header().Get("X-QR-Target")
	if !strings.Contains(target, "/api/captures/"+id+"/export") || !strings.Contains(target, "glassType=aqua") {
		t.Errorf("qr target = %q", target)
	}

	if rec := do(t, s, http.MethodGet, "/api/captures/missing/qr", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing capture qr status = %d", rec.Code)
	}
}

func TestStaticAndNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "doorstencil") {
		t.Errorf("index = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown api status = %d", rec.Code)
	}
}

func TestLivePreview(t *testing.T) {
	s := newTestServer(t)
	id := createCapture(t, s)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/captures/" + id + "/preview"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	readFrame := func() liveStatus {
		t.Helper()
		mt, data, err := conn.ReadMessage()
		if err != nil || mt != websocket.TextMessage {
			t.Fatalf("status message: type %d, err %v", mt, err)
		}
		var st liveStatus
		if err := json.Unmarshal(data, &st); err != nil {
			t.Fatal(err)
		}
		if st.Error != "" {
			t.Fatalf("render error: %s", st.Error)
		}
		mt, data, err = conn.ReadMessage()
		if err != nil || mt != websocket.BinaryMessage {
			t.Fatalf("frame message: type %d, err %v", mt, err)
		}
		if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
			t.Error("frame is not a JPEG")
		}
		return st
	}

	first := readFrame()
	if !first.Painted {
		t.Error("initial frame has no door")
	}

	msg := `{"config":{"frameColor":"gold"},"width":40,"height":30}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatal(err)
	}
	second := readFrame()
	if second.Generation <= first.Generation {
		t.Errorf("generation %d after %d", second.Generation, first.Generation)
	}
	if second.Config.FrameColor.Slug() != "gold" {
		t.Errorf("frame color = %q", second.Config.FrameColor.Slug())
	}
}
