package config

import "sort"

var presets = map[string]*Config{
	"fast": {
		Problem: "quadratic", GammaSeed: DefaultGammaSeed, Integrator: "dopri",
		Dt: 0.05, MaxDt: 0.2, MinDt: 1e-10, Adaptive: true, Tolerance: 1e-6,
		RootTol: 1e-6, NewtonIters: 10,
		EndgameThreshold: 0.95, Blowup: DefaultBlowup,
	},
	"careful": {
		Problem: "cyclic-3", GammaSeed: DefaultGammaSeed, Integrator: "dopri",
		Dt: 0.005, MaxDt: 0.02, MinDt: 1e-13, Adaptive: true, Tolerance: 1e-10,
		RootTol: 1e-10, NewtonIters: 40,
		EndgameThreshold: 0.99, Blowup: DefaultBlowup,
	},
	"singular": {
		Problem: "multiple-root", GammaSeed: DefaultGammaSeed, Integrator: "dopri",
		Dt: 0.005, MaxDt: 0.01, MinDt: 1e-13, Adaptive: true, Tolerance: 1e-9,
		RootTol: 1e-5, NewtonIters: 60,
		EndgameThreshold: 0.9, Blowup: DefaultBlowup,
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// ListPresets returns the preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
