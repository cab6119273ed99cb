package config

import (
	"os"
	"strings"
)

// applyEnv layers environment overrides onto cfg. Env wins over the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PROCRASTITASK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PROCRASTITASK_LISTS"); v != "" {
		lists := strings.Split(v, ",")
		out := lists[:0]
		for _, l := range lists {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
		cfg.DefaultLists = out
	}
	if v := os.Getenv("PROCRASTITASK_LOCATION"); v != "" {
		cfg.Location.Override = v
	}
}
