package config

import "sort"

var presets = map[string]func(*Config){
	// calm: fewer bodies, weak pull
	"calm": func(c *Config) {
		c.Bodies.Count = 12
		c.Field.Strength = 0.2
	},
	// dense: a packed swarm of small bodies
	"dense": func(c *Config) {
		c.Bodies.Count = 40
		c.Bodies.Size = 0.25
		c.Bodies.Density = c.Bodies.Size * 0.5
		c.Physics.Workers = 4
	},
	// pointer: no camera, the pointing device pushes the swarm
	"pointer": func(c *Config) {
		c.Control.Mode = ControlPointer
		c.Video.Source = "none"
	},
	// bench: headless, fixed seed
	"bench": func(c *Config) {
		c.Seed = 1
		c.Render.Engine = "headless"
		c.Render.FPS = 0
		c.Render.Frames = 600
	},
}

// Preset returns the defaults with the named preset applied, nil if unknown
func Preset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := Default()
	apply(cfg)

	return cfg
}

// Apply applies the named preset over cfg, false if unknown
func Apply(cfg *Config, name string) bool {
	apply, ok := presets[name]
	if ok {
		apply(cfg)
	}

	return ok
}

// ListPresets returns the preset names, sorted
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
