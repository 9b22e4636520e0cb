// doorstencil — Composites catalog doors into room photos.
//
// Usage:
//
//	doorstencil capture --photo <file> --quad x1,y1,...,x4,y4 [-o capture.json] [--put]
//	doorstencil render --capture <file> | --key <id> [-o door.jpg] [--preview-out <file>]
//	doorstencil texture [-o door.png] [--width 600 --height 1200]
//	doorstencil catalog [--json]
//	doorstencil serve [--port 8080] [--open]
//	doorstencil init
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
