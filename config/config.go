// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Generator GeneratorConfig `yaml:"generator"`
	Retention RetentionConfig `yaml:"retention"`
	Ship      ShipConfig      `yaml:"ship"`
	Weapons   WeaponsConfig   `yaml:"weapons"`
	Enemy     EnemyConfig     `yaml:"enemy"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the chunking parameters of the infinite plane.
type WorldConfig struct {
	AreaSize float64 `yaml:"area_size"` // Side length of one square generation area
	Seed     int64   `yaml:"seed"`      // Generation seed (0 = derived from the session RNG)
}

// GeneratorConfig holds per-area content placement parameters.
type GeneratorConfig struct {
	MinPlanets         int     `yaml:"min_planets"`
	MaxPlanets         int     `yaml:"max_planets"`
	MinRadius          float64 `yaml:"min_radius"`
	MaxRadius          float64 `yaml:"max_radius"`
	BouncyChance       float64 `yaml:"bouncy_chance"`
	EnemyChance        float64 `yaml:"enemy_chance"`
	DensityNoiseWeight float64 `yaml:"density_noise_weight"` // Blend of noise into planet count, 0..1
	DensityNoiseScale  float64 `yaml:"density_noise_scale"`  // Noise frequency per area
	GoalRadius         float64 `yaml:"goal_radius"`
	GoalMinDistance    float64 `yaml:"goal_min_distance"`
	GoalMaxDistance    float64 `yaml:"goal_max_distance"`
}

// RetentionConfig bounds how many generated areas stay in memory.
type RetentionConfig struct {
	Radius   int `yaml:"radius"`    // Chebyshev radius (in areas) never evicted
	MaxAreas int `yaml:"max_areas"` // Eviction starts above this count (0 = disabled)
}

// ShipConfig holds ship movement parameters.
type ShipConfig struct {
	Size         float64 `yaml:"size"`
	Speed        float64 `yaml:"speed"`
	AirControl   float64 `yaml:"air_control"`
	FlySpeed     float64 `yaml:"fly_speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
	Acceleration float64 `yaml:"acceleration"`
	Gravity      float64 `yaml:"gravity"`
}

// WeaponsConfig holds projectile parameters.
type WeaponsConfig struct {
	BulletSpeed  float64 `yaml:"bullet_speed"`
	BulletSize   float64 `yaml:"bullet_size"`
	FireCooldown float64 `yaml:"fire_cooldown"`
	CullDistance float64 `yaml:"cull_distance"` // Per-axis distance from the ship before a projectile is dropped
}

// EnemyConfig holds patrol enemy parameters.
type EnemyConfig struct {
	Size  float64 `yaml:"size"`
	Speed float64 `yaml:"speed"`
}

// PhysicsConfig holds the fixed timestep used by the headless driver.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// CameraConfig holds viewport and follow parameters.
type CameraConfig struct {
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	MinZoom        float64 `yaml:"min_zoom"`
	MaxZoom        float64 `yaml:"max_zoom"`
	PlanetFollow   float64 `yaml:"planet_follow"` // Lerp factor per tick while grounded
	FreeFollow     float64 `yaml:"free_follow"`   // Lerp factor per tick while airborne
	Margin         float64 `yaml:"margin"`        // View fraction kept between the ship and each edge
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ShipHalfWidth float64 // Ship.Size / 2, the ship's collision radius
	TickRate      float64 // 1 / Physics.DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first configuration value that cannot produce a playable world.
func (c *Config) Validate() error {
	g := c.Generator
	switch {
	case c.World.AreaSize <= 0:
		return fmt.Errorf("world.area_size must be positive, got %v", c.World.AreaSize)
	case g.MinPlanets < 1 || g.MaxPlanets < g.MinPlanets:
		return fmt.Errorf("generator planet range [%d, %d] invalid", g.MinPlanets, g.MaxPlanets)
	case g.MinRadius <= 0 || g.MaxRadius < g.MinRadius:
		return fmt.Errorf("generator radius range [%v, %v] invalid", g.MinRadius, g.MaxRadius)
	case !isProbability(g.BouncyChance), !isProbability(g.EnemyChance), !isProbability(g.DensityNoiseWeight):
		return errors.New("generator chances and density_noise_weight must be within [0, 1]")
	case g.GoalRadius <= 0 || g.GoalMaxDistance < g.GoalMinDistance:
		return fmt.Errorf("generator goal placement [%v, %v] r=%v invalid", g.GoalMinDistance, g.GoalMaxDistance, g.GoalRadius)
	case c.Retention.Radius < 1 || c.Retention.MaxAreas < 0:
		return fmt.Errorf("retention radius must be >= 1 and max_areas >= 0")
	case c.Ship.Size <= 0:
		return fmt.Errorf("ship.size must be positive, got %v", c.Ship.Size)
	case c.Physics.DT <= 0:
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	case c.Camera.ViewportWidth <= 0 || c.Camera.ViewportHeight <= 0:
		return fmt.Errorf("camera viewport %vx%v invalid", c.Camera.ViewportWidth, c.Camera.ViewportHeight)
	case c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom:
		return fmt.Errorf("camera zoom range [%v, %v] invalid", c.Camera.MinZoom, c.Camera.MaxZoom)
	case c.Camera.Margin < 0 || c.Camera.Margin > 0.5:
		return fmt.Errorf("camera.margin must be within [0, 0.5], got %v", c.Camera.Margin)
	}
	return nil
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ShipHalfWidth = c.Ship.Size / 2
	c.Derived.TickRate = 1 / c.Physics.DT
}

// ApplyEnv overlays HOPPER_* environment variables onto the config.
// Call after godotenv has populated the environment.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("HOPPER_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing HOPPER_SEED: %w", err)
		}
		c.World.Seed = seed
	}
	if v, ok := os.LookupEnv("HOPPER_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("HOPPER_LOG_FORMAT"); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
