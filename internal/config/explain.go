package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	screen
//	navigation_wraps_around
//	desktops_file
//	reconcile_interval_seconds
//	logging.level
//	logging.format
//	shortcuts.overrides.<action>
//	shortcuts.disabled
//	shortcuts.scroll
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.SplitN(path, ".", 3)
	switch parts[0] {
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "screen":
		return cfg.Screen, nil
	case "navigation_wraps_around":
		return cfg.NavigationWrapsAround, nil
	case "desktops_file":
		return cfg.DesktopsPath()
	case "reconcile_interval_seconds":
		return cfg.ReconcileInterval, nil
	case "logging":
		if len(parts) == 2 {
			switch parts[1] {
			case "level":
				return cfg.Logging.Level, nil
			case "format":
				return cfg.Logging.Format, nil
			}
		}
	case "shortcuts":
		if len(parts) < 2 {
			break
		}
		switch parts[1] {
		case "overrides":
			if len(parts) == 2 {
				return cfg.Shortcuts.Overrides, nil
			}
			keys, ok := cfg.Shortcuts.Overrides[parts[2]]
			if !ok {
				return nil, fmt.Errorf("no override for %q", parts[2])
			}
			return keys, nil
		case "disabled":
			return cfg.Shortcuts.Disabled, nil
		case "scroll":
			return cfg.Shortcuts.ScrollEnabled(), nil
		}
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
