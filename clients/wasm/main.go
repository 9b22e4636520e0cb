//go:build js && wasm

// doorstencil WASM — client-side door renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o doorstencil.wasm ./clients/wasm/
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"syscall/js"

	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/generator"
	"github.com/xob0t/doorstencil/pkg/scene"
)

// The last opened capture is kept decoded so option changes only redraw.
var (
	sceneMu   sync.Mutex
	lastImage string
	lastScene *scene.Scene
	renderer  = &scene.Renderer{FallbackProcedural: true}
)

func main() {
	fmt.Println("doorstencil WASM loaded")

	js.Global().Set("goRenderDoor", js.FuncOf(renderDoor))
	js.Global().Set("goDoorTexture", js.FuncOf(doorTexture))
	js.Global().Set("goDoorCatalog", js.FuncOf(doorCatalog))
	js.Global().Set("goReady", js.ValueOf(true))

	select {}
}

func errorValue(format string, args ...any) js.Value {
	return js.ValueOf("error: " + fmt.Sprintf(format, args...))
}

func encodeBase64(img image.Image, ext string, quality int) js.Value {
	var buf bytes.Buffer
	if err := generator.Encode(&buf, ext, img, quality); err != nil {
		return errorValue("encode: %v", err)
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// parseConfig reads an optional JSON door config; "", "null" and "{}" mean
// no override.
func parseConfig(s string) (*door.Config, error) {
	if s == "" || s == "null" || s == "{}" {
		return nil, nil
	}
	var cfg door.Config
	if err := json.Unmarshal([]byte(s), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func openScene(c *scene.Capture) (*scene.Scene, error) {
	sceneMu.Lock()
	defer sceneMu.Unlock()
	if lastScene != nil && lastImage == c.Image {
		s := *lastScene
		s.Quad = c.Quad
		return &s, nil
	}
	s, err := scene.Open(c)
	if err != nil {
		return nil, err
	}
	lastImage, lastScene = c.Image, s
	return s, nil
}

// goRenderDoor(captureJSON, configJSON, width, height) — render a preview
// into a width×height canvas and return it as base64 JPEG. A zero size
// renders the export at photo resolution.
func renderDoor(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return errorValue("need captureJSON, configJSON, width, height")
	}

	c, warnings, err := scene.ParseCapture([]byte(args[0].String()))
	if err != nil {
		return errorValue("parse capture: %v", err)
	}
	for _, w := range warnings {
		fmt.Println("doorstencil:", w)
	}
	override, err := parseConfig(args[1].String())
	if err != nil {
		return errorValue("parse config: %v", err)
	}

	s, err := openScene(c)
	if err != nil {
		return errorValue("open capture: %v", err)
	}
	cfg := scene.EffectiveConfig(c, override)

	w, h := args[2].Int(), args[3].Int()
	var f *scene.Frame
	if w == 0 && h == 0 {
		f, err = renderer.Export(context.Background(), s, cfg)
	} else {
		f, err = renderer.Preview(context.Background(), s, cfg, w, h)
	}
	if err != nil {
		return errorValue("render: %v", err)
	}

	return encodeBase64(f.Image, "jpeg", generator.DefaultJPEGQuality)
}

// goDoorTexture(configJSON, width, height) — render the bare door texture
// and return it as base64 PNG.
func doorTexture(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorValue("need configJSON, width, height")
	}
	override, err := parseConfig(args[0].String())
	if err != nil {
		return errorValue("parse config: %v", err)
	}
	cfg := door.DefaultConfig()
	if override != nil {
		cfg = door.Merge(cfg, *override)
	}

	r, err := renderer.WithTextureSize(args[1].Int(), args[2].Int())
	if err != nil {
		return errorValue("texture size: %v", err)
	}
	img, err := r.Texture(context.Background(), cfg)
	if err != nil {
		return errorValue("render: %v", err)
	}

	return encodeBase64(img, "png", 0)
}

// goDoorCatalog() — the option catalog as JSON.
func doorCatalog(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(door.Catalog())
	if err != nil {
		return errorValue("catalog: %v", err)
	}
	return js.ValueOf(string(data))
}
