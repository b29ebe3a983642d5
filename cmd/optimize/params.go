package main

import (
	"github.com/pthm-cable/hopper/config"
)

// ParamSpec is one tunable config value and its search bounds.
type ParamSpec struct {
	Name    string
	Path    string // Config key, for logs
	Min     float64
	Max     float64
	Default float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector is the ordered search space. CMA-ES works on the normalized
// form, where every parameter spans [0, 1].
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the difficulty parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "enemy_chance", Path: "generator.enemy_chance", Min: 0.1, Max: 0.9, Default: 0.5,
			get: func(c *config.Config) float64 { return c.Generator.EnemyChance },
			set: func(c *config.Config, v float64) { c.Generator.EnemyChance = v },
		},
		{
			Name: "bouncy_chance", Path: "generator.bouncy_chance", Min: 0.0, Max: 0.6, Default: 0.2,
			get: func(c *config.Config) float64 { return c.Generator.BouncyChance },
			set: func(c *config.Config, v float64) { c.Generator.BouncyChance = v },
		},
		{
			Name: "max_radius", Path: "generator.max_radius", Min: 60, Max: 160, Default: 100,
			get: func(c *config.Config) float64 { return c.Generator.MaxRadius },
			set: func(c *config.Config, v float64) { c.Generator.MaxRadius = max(v, c.Generator.MinRadius) },
		},
		{
			Name: "density_noise_weight", Path: "generator.density_noise_weight", Min: 0.0, Max: 1.0, Default: 0.35,
			get: func(c *config.Config) float64 { return c.Generator.DensityNoiseWeight },
			set: func(c *config.Config, v float64) { c.Generator.DensityNoiseWeight = v },
		},
		{
			Name: "goal_min_distance", Path: "generator.goal_min_distance", Min: 2000, Max: 10000, Default: 6000,
			get: func(c *config.Config) float64 { return c.Generator.GoalMinDistance },
			set: func(c *config.Config, v float64) {
				span := c.Generator.GoalMaxDistance - c.Generator.GoalMinDistance
				c.Generator.GoalMinDistance = v
				c.Generator.GoalMaxDistance = v + span
			},
		},
		{
			// Searched as a span so the max can never drop below the min.
			Name: "goal_distance_span", Path: "generator.goal_max_distance", Min: 0, Max: 8000, Default: 6000,
			get: func(c *config.Config) float64 { return c.Generator.GoalMaxDistance - c.Generator.GoalMinDistance },
			set: func(c *config.Config, v float64) { c.Generator.GoalMaxDistance = c.Generator.GoalMinDistance + v },
		},
		{
			Name: "enemy_speed", Path: "enemy.speed", Min: 0.5, Max: 4.0, Default: 2.0,
			get: func(c *config.Config) float64 { return c.Enemy.Speed },
			set: func(c *config.Config, v float64) { c.Enemy.Speed = v },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns every spec's default.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(func(_ int, s ParamSpec) float64 { return s.Default })
}

// Normalize maps raw values onto [0, 1] per spec bounds.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(func(i int, s ParamSpec) float64 { return (raw[i] - s.Min) / (s.Max - s.Min) })
}

// Denormalize is the inverse of Normalize.
func (pv *ParamVector) Denormalize(norm []float64) []float64 {
	return pv.each(func(i int, s ParamSpec) float64 { return s.Min + norm[i]*(s.Max-s.Min) })
}

// Clamp bounds every value to its spec.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(func(i int, s ParamSpec) float64 { return min(max(v[i], s.Min), s.Max) })
}

// ApplyToConfig writes clamped values into cfg in spec order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current value of every spec from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(func(_ int, s ParamSpec) float64 { return s.get(cfg) })
}

func (pv *ParamVector) each(f func(int, ParamSpec) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = f(i, s)
	}
	return out
}
