package server

import (
	"net/http"
	"testing"

	"github.com/xob0t/doorstencil/pkg/scene"
)

func TestSceneCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newSceneCache(2)
	a, b, d := &scene.Scene{}, &scene.Scene{}, &scene.Scene{}

	c.put("a", a)
	c.put("b", b)
	if _, ok := c.get("a"); !ok {
		t.Fatal("a missing before eviction")
	}
	c.put("d", d)

	if _, ok := c.get("b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	if got, ok := c.get("a"); !ok || got != a {
		t.Error("recently read entry a was evicted")
	}
	if got, ok := c.get("d"); !ok || got != d {
		t.Error("newest entry d missing")
	}
	if n := c.len(); n != 2 {
		t.Errorf("len = %d, want 2", n)
	}

	c.put("a", d)
	if got, _ := c.get("a"); got != d || c.len() != 2 {
		t.Error("replacing a key should update in place")
	}

	c.remove("a")
	c.remove("missing")
	if _, ok := c.get("a"); ok || c.len() != 1 {
		t.Errorf("after remove: len = %d", c.len())
	}
}

func TestSceneCacheMinimumCapacity(t *testing.T) {
	c := newSceneCache(0)
	c.put("a", &scene.Scene{})
	c.put("b", &scene.Scene{})
	if n := c.len(); n != 1 {
		t.Errorf("len = %d, want 1", n)
	}
}

func TestServerSceneCacheBounded(t *testing.T) {
	s := newTestServer(t)
	for range 5 {
		id := createCapture(t, s)
		if rec := do(t, s, http.MethodPost, "/api/captures/"+id+"/preview", nil); rec.Code != http.StatusOK {
			t.Fatalf("preview status = %d: %s", rec.Code, rec.Body)
		}
	}
	if n, limit := s.scenes.len(), s.cfg.Server.SceneCache; n > limit {
		t.Errorf("cached scenes = %d, want at most %d", n, limit)
	}
}
