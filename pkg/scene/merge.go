// merge.go — Combine the stored door options with a caller's override.
package scene

import "github.com/xob0t/doorstencil/pkg/door"

// EffectiveConfig layers the capture's stored config and then override onto
// the default door. Unknown members in either layer keep the value below.
func EffectiveConfig(c *Capture, override *door.Config) door.Config {
	cfg := door.DefaultConfig()
	if c != nil && c.Config != nil {
		cfg = door.Merge(cfg, *c.Config)
	}
	if override != nil {
		cfg = door.Merge(cfg, *override)
	}
	return cfg
}
