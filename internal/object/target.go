package object

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/physics"
)

// FruitKind is the type of a target.
type FruitKind int

const (
	Watermelon FruitKind = iota
	Apple
	Banana
	Melon
	Orange
	Pineapple
	Grape
	Tomato
	Carrot
	Coconut
)

var fruitNames = [...]string{
	Watermelon: "Watermelon",
	Apple:      "Apple",
	Banana:     "Banana",
	Melon:      "Melon",
	Orange:     "Orange",
	Pineapple:  "Pineapple",
	Grape:      "Grape",
	Tomato:     "Tomato",
	Carrot:     "Carrot",
	Coconut:    "Coconut",
}

func (k FruitKind) String() string {
	if k < 0 || int(k) >= len(fruitNames) {
		return "Fruit"
	}
	return fruitNames[k]
}

// ParseFruitKind looks up a fruit by name, ignoring case.
func ParseFruitKind(name string) (FruitKind, bool) {
	for i, n := range fruitNames {
		if strings.EqualFold(n, name) {
			return FruitKind(i), true
		}
	}
	return 0, false
}

// TargetPrefab is the template a target is created from.
type TargetPrefab struct {
	Fruit         FruitKind
	Points        int
	MaxLifetime   time.Duration
	DestroyBelowY float64
	Radius        float64
}

// Target is a launched fruit worth points.
type Target struct {
	id        uuid.UUID
	Fruit     FruitKind
	Position  physics.Vec3
	Velocity  physics.Vec3
	Points    int
	Radius    float64
	SpawnedAt time.Duration

	MaxLifetime   time.Duration
	DestroyBelowY float64

	destroyed bool
	events    event.Listener
}

// NewTarget creates a target from prefab at pos moving with vel.
func NewTarget(prefab TargetPrefab, pos, vel physics.Vec3, now time.Duration, events event.Listener) *Target {
	if events == nil {
		events = event.Nop
	}
	return &Target{
		id:            uuid.New(),
		Fruit:         prefab.Fruit,
		Position:      pos,
		Velocity:      vel,
		Points:        prefab.Points,
		Radius:        prefab.Radius,
		SpawnedAt:     now,
		MaxLifetime:   prefab.MaxLifetime,
		DestroyBelowY: prefab.DestroyBelowY,
		events:        events,
	}
}

func (t *Target) ID() uuid.UUID { return t.id }
func (t *Target) Kind() Kind    { return KindTarget }

// Name returns the display name of the target.
func (t *Target) Name() string { return t.Fruit.String() }

// MarkDestroyed removes the target from play without emitting anything.
func (t *Target) MarkDestroyed() { t.destroyed = true }

// IsDestroyed returns true once the target was hit, expired or cleared.
func (t *Target) IsDestroyed() bool { return t.destroyed }

// Update applies gravity and checks passive expiry.
func (t *Target) Update(ctx UpdateContext) (bool, error) {
	if t.destroyed {
		return true, nil
	}
	dt := ctx.Delta.Seconds()

	t.Velocity[1] -= physics.Gravity * dt
	t.Position = t.Position.Add(t.Velocity.Mul(dt))

	if t.Position.Y() < t.DestroyBelowY || ctx.Now-t.SpawnedAt > t.MaxLifetime {
		t.destroyed = true
		t.events.Notify(event.TargetExpired{TargetID: t.id, Position: t.Position})
		return true, nil
	}
	return false, nil
}
