package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/polypath/internal/poly"
	"github.com/san-kum/polypath/internal/tracker"
)

const (
	DefaultDt               = 0.01
	DefaultMaxDt            = 0.05
	DefaultMinDt            = 1e-12
	DefaultTolerance        = 1e-8
	DefaultRootTol          = 1e-8
	DefaultNewtonIters      = 20
	DefaultEndgameThreshold = 0.99
	DefaultBlowup           = 1e8
	DefaultGammaSeed        = 42
)

type Config struct {
	Problem    string       `yaml:"problem"`
	System     []PolyConfig `yaml:"system"`
	GammaSeed  int64        `yaml:"gamma_seed"`
	Integrator string       `yaml:"integrator"`
	Workers    int          `yaml:"workers"`

	Dt        float64 `yaml:"dt"`
	MaxDt     float64 `yaml:"max_dt"`
	MinDt     float64 `yaml:"min_dt"`
	Adaptive  bool    `yaml:"adaptive"`
	Tolerance float64 `yaml:"tolerance"`

	RootTol          float64 `yaml:"root_tol"`
	NewtonIters      int     `yaml:"newton_iters"`
	EndgameThreshold float64 `yaml:"endgame_threshold"`
	Blowup           float64 `yaml:"blowup"`
}

// PolyConfig is one equation of an inline system: a list of monomials.
type PolyConfig struct {
	Terms []TermConfig `yaml:"terms"`
}

// TermConfig is a monomial: coeff is [re] or [re, im], powers lists the
// exponent of each variable.
type TermConfig struct {
	Coeff  []float64 `yaml:"coeff"`
	Powers []int     `yaml:"powers"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:          "quadratic",
		GammaSeed:        DefaultGammaSeed,
		Integrator:       "dopri",
		Dt:               DefaultDt,
		MaxDt:            DefaultMaxDt,
		MinDt:            DefaultMinDt,
		Adaptive:         true,
		Tolerance:        DefaultTolerance,
		RootTol:          DefaultRootTol,
		NewtonIters:      DefaultNewtonIters,
		EndgameThreshold: DefaultEndgameThreshold,
		Blowup:           DefaultBlowup,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// InlineSystem builds the polynomial system defined inline in the config.
// Returns false when no inline system is present.
func (c *Config) InlineSystem() (poly.System, bool, error) {
	if len(c.System) == 0 {
		return poly.System{}, false, nil
	}
	n := len(c.System)
	polys := make([]poly.Polynomial, n)
	for i, pc := range c.System {
		terms := make([]poly.Term, 0, len(pc.Terms))
		for j, tc := range pc.Terms {
			if len(tc.Coeff) == 0 || len(tc.Coeff) > 2 {
				return poly.System{}, false, fmt.Errorf("config: equation %d term %d: coeff must be [re] or [re, im]", i, j)
			}
			im := 0.0
			if len(tc.Coeff) == 2 {
				im = tc.Coeff[1]
			}
			if len(tc.Powers) > n {
				return poly.System{}, false, fmt.Errorf("config: equation %d term %d: %d exponents for %d variables", i, j, len(tc.Powers), n)
			}
			terms = append(terms, poly.Term{
				Coeff:  complex(tc.Coeff[0], im),
				Powers: tc.Powers,
			})
		}
		polys[i] = poly.New(n, terms...)
	}
	sys, err := poly.NewSystem(polys...)
	if err != nil {
		return poly.System{}, false, err
	}
	return sys, true, nil
}

// TrackerConfig translates the file-level settings into the tracker's
// runtime configuration.
func (c *Config) TrackerConfig() tracker.Config {
	tc := tracker.DefaultConfig()
	tc.Step.Dt = c.Dt
	tc.Step.MaxDt = c.MaxDt
	tc.Step.MinDt = c.MinDt
	tc.Step.Adaptive = c.Adaptive
	tc.Step.Tolerance = c.Tolerance
	tc.RootTol = c.RootTol
	tc.NewtonIters = c.NewtonIters
	tc.EndgameThreshold = c.EndgameThreshold
	tc.Blowup = c.Blowup
	return tc
}
