package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xob0t/doorstencil/pkg/scene"
	"github.com/xob0t/doorstencil/pkg/warp"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "captures.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing err = %v, want ErrNotFound", err)
	}

	key := NewKey()
	if err := s.Put(ctx, key, []byte(`{"quad":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	r, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Key != key || !bytes.Equal(r.Blob, []byte(`{"quad":[]}`)) {
		t.Errorf("record = %+v", r)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestPutReplacesAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	clock := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return clock }
	if err := s.Put(ctx, scene.CaptureKey, []byte("one")); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Minute)
	if err := s.Put(ctx, scene.CaptureKey, []byte("two")); err != nil {
		t.Fatal(err)
	}

	r, err := s.Get(ctx, scene.CaptureKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(r.Blob) != "two" {
		t.Errorf("blob = %q, want replaced", r.Blob)
	}
	if !r.UpdatedAt.Equal(clock) || !r.CreatedAt.Equal(clock.Add(-time.Minute)) {
		t.Errorf("timestamps created=%v updated=%v", r.CreatedAt, r.UpdatedAt)
	}
}

func TestPutEmptyKey(t *testing.T) {
	if err := openTemp(t).Put(context.Background(), "", []byte("x")); err == nil {
		t.Error("empty key accepted")
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	clock := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return clock }
	for _, k := range []string{"a", "b", "c"} {
		clock = clock.Add(time.Second)
		if err := s.Put(ctx, k, []byte(k+k)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Key != "c" || got[2].Key != "a" {
		t.Errorf("order = %s, %s, %s; want newest first", got[0].Key, got[1].Key, got[2].Key)
	}
	if got[0].Size != 2 {
		t.Errorf("size = %d, want 2", got[0].Size)
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	c := &scene.Capture{
		Quad:  []warp.Point{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.9, Y: 0.9}, {X: 0.1, Y: 0.9}},
		Image: "data:image/png;base64,AA==",
	}
	if err := s.PutCapture(ctx, scene.CaptureKey, c); err != nil {
		t.Fatalf("PutCapture: %v", err)
	}
	back, warnings, err := s.GetCapture(ctx, scene.CaptureKey)
	if err != nil {
		t.Fatalf("GetCapture: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %q", warnings)
	}
	if back.Image != c.Image || len(back.Quad) != 4 || back.Quad[2] != c.Quad[2] {
		t.Errorf("capture = %+v", back)
	}
}
