package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Validate and Load.
var ErrInvalid = errors.New("invalid settings")

// Settings is the full tunable surface of a game. Times are in seconds and
// angles in degrees.
type Settings struct {
	Seed        int64            `yaml:"seed"` // 0 picks a random seed
	Session     SessionSettings  `yaml:"session"`
	Spawner     SpawnerSettings  `yaml:"spawner"`
	Fruits      []*FruitSettings `yaml:"fruits"`      // null entries are unassigned slots
	SpawnPoints []*PointSettings `yaml:"spawnPoints"` // null entries are unassigned points
	Shooter     ShooterSettings  `yaml:"shooter"`
	Arrow       ArrowSettings    `yaml:"arrow"`
	World       WorldSettings    `yaml:"world"`
}

// SessionSettings bounds one game.
type SessionSettings struct {
	Duration     float64 `yaml:"duration"`
	CleanupDelay float64 `yaml:"cleanupDelay"` // wait after game over before clearing targets
	CleanupStep  float64 `yaml:"cleanupStep"`  // wait between cleared targets
}

// SpawnerSettings controls target launches.
type SpawnerSettings struct {
	FruitsPerCycle   int     `yaml:"fruitsPerCycle"`
	CycleDelay       float64 `yaml:"cycleDelay"`
	MinLaunchAngle   float64 `yaml:"minLaunchAngle"`
	MaxLaunchAngle   float64 `yaml:"maxLaunchAngle"`
	LaunchForce      float64 `yaml:"launchForce"`
	HorizontalSpread float64 `yaml:"horizontalSpread"`
}

// FruitSettings describes one target prefab.
type FruitSettings struct {
	Kind          string  `yaml:"kind"`
	Points        int     `yaml:"points"`
	MaxLifetime   float64 `yaml:"maxLifetime"`
	DestroyBelowY float64 `yaml:"destroyBelowY"`
	Radius        float64 `yaml:"radius"`
}

// PointSettings is a named position.
type PointSettings struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
}

// ShooterSettings controls the fire gate.
type ShooterSettings struct {
	Cooldown       float64       `yaml:"cooldown"`
	MaxProjectiles int           `yaml:"maxProjectiles"`
	Origin         PointSettings `yaml:"origin"`
	Disabled       bool          `yaml:"disabled"` // no projectile template configured
}

// ArrowSettings describes the projectile template.
type ArrowSettings struct {
	Speed       float64 `yaml:"speed"`
	Lifetime    float64 `yaml:"lifetime"`
	Piercing    bool    `yaml:"piercing"`
	MaxPierce   int     `yaml:"maxPierce"`
	ForwardAxis string  `yaml:"forwardAxis"` // up, right or forward
	Radius      float64 `yaml:"radius"`
}

// WorldSettings bounds the playfield.
type WorldSettings struct {
	MinX    float64 `yaml:"minX"`
	MaxX    float64 `yaml:"maxX"`
	GroundY float64 `yaml:"groundY"`
	MaxY    float64 `yaml:"maxY"`
}

// Default returns settings tuned for the terminal playfield.
func Default() Settings {
	s := Settings{
		Session: SessionSettings{
			Duration:     60,
			CleanupDelay: 1,
			CleanupStep:  0.1,
		},
		Spawner: SpawnerSettings{
			FruitsPerCycle:   3,
			CycleDelay:       3,
			MinLaunchAngle:   45,
			MaxLaunchAngle:   135,
			LaunchForce:      14,
			HorizontalSpread: 15,
		},
		Fruits: []*FruitSettings{
			{Kind: "watermelon", Points: 5},
			{Kind: "apple", Points: 10},
			{Kind: "banana", Points: 15},
			{Kind: "melon", Points: 5},
			{Kind: "orange", Points: 10},
			{Kind: "pineapple", Points: 20},
			{Kind: "grape", Points: 25},
			{Kind: "tomato", Points: 10},
			{Kind: "carrot", Points: 15},
			{Kind: "coconut", Points: 20},
		},
		SpawnPoints: []*PointSettings{
			{Name: "left", X: -12, Y: -8},
			{Name: "right", X: 12, Y: -8},
		},
		Shooter: ShooterSettings{
			Cooldown:       0.3,
			MaxProjectiles: 10,
			Origin:         PointSettings{Name: "bow", Y: -4},
		},
		Arrow: ArrowSettings{
			Speed:       20,
			Lifetime:    5,
			MaxPierce:   3,
			ForwardAxis: "up",
			Radius:      0.3,
		},
		World: WorldSettings{
			MinX:    -24,
			MaxX:    24,
			GroundY: -9,
			MaxY:    16,
		},
	}
	s.fillFruitDefaults()
	return s
}

// Load reads YAML settings from path on top of Default and validates them.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML settings on top of Default and validates them.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	s.fillFruitDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// fillFruitDefaults gives assigned fruit slots the stock lifetime, despawn height
// and radius when the file leaves them out.
func (s *Settings) fillFruitDefaults() {
	for _, f := range s.Fruits {
		if f == nil {
			continue
		}
		if f.MaxLifetime == 0 {
			f.MaxLifetime = 20
		}
		if f.DestroyBelowY == 0 {
			f.DestroyBelowY = -10
		}
		if f.Radius == 0 {
			f.Radius = 1
		}
	}
}

// Validate checks numeric ranges. Unassigned fruit slots and spawn points are
// not errors here; the spawner reports and skips them.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Session.Duration > 0, "session.duration must be > 0, got %v", s.Session.Duration)
	check(s.Session.CleanupDelay >= 0, "session.cleanupDelay must be >= 0, got %v", s.Session.CleanupDelay)
	check(s.Session.CleanupStep >= 0, "session.cleanupStep must be >= 0, got %v", s.Session.CleanupStep)

	sp := s.Spawner
	check(sp.FruitsPerCycle >= 0, "spawner.fruitsPerCycle must be >= 0, got %d", sp.FruitsPerCycle)
	check(sp.CycleDelay > 0, "spawner.cycleDelay must be > 0, got %v", sp.CycleDelay)
	check(sp.MinLaunchAngle >= 0 && sp.MinLaunchAngle <= sp.MaxLaunchAngle && sp.MaxLaunchAngle <= 180,
		"spawner launch angles must satisfy 0 <= min <= max <= 180, got min=%v max=%v", sp.MinLaunchAngle, sp.MaxLaunchAngle)
	check(sp.LaunchForce >= 0, "spawner.launchForce must be >= 0, got %v", sp.LaunchForce)
	check(sp.HorizontalSpread >= 0, "spawner.horizontalSpread must be >= 0, got %v", sp.HorizontalSpread)

	for i, f := range s.Fruits {
		if f == nil {
			continue
		}
		check(f.Points >= 0, "fruits[%d].points must be >= 0, got %d", i, f.Points)
		check(f.MaxLifetime > 0, "fruits[%d].maxLifetime must be > 0, got %v", i, f.MaxLifetime)
		check(f.Radius > 0, "fruits[%d].radius must be > 0, got %v", i, f.Radius)
	}

	check(s.Shooter.Cooldown >= 0, "shooter.cooldown must be >= 0, got %v", s.Shooter.Cooldown)
	check(s.Shooter.MaxProjectiles >= 1, "shooter.maxProjectiles must be >= 1, got %d", s.Shooter.MaxProjectiles)

	check(s.Arrow.Speed >= 0, "arrow.speed must be >= 0, got %v", s.Arrow.Speed)
	check(s.Arrow.Lifetime > 0, "arrow.lifetime must be > 0, got %v", s.Arrow.Lifetime)
	check(s.Arrow.MaxPierce >= 1, "arrow.maxPierce must be >= 1, got %d", s.Arrow.MaxPierce)
	switch s.Arrow.ForwardAxis {
	case "", "up", "right", "forward":
	default:
		errs = append(errs, fmt.Errorf("arrow.forwardAxis must be up, right or forward, got %q", s.Arrow.ForwardAxis))
	}

	check(s.World.MinX < s.World.MaxX, "world.minX must be < world.maxX")
	check(s.World.GroundY < s.World.MaxY, "world.groundY must be < world.maxY")

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
