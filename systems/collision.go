// Package systems provides the per-tick simulation passes: collision
// resolution, projectile flight and enemy patrols.
package systems

import (
	"math"

	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
)

// LandingMargin is the contact margin for landings. The ship must overlap a
// planet by at least one unit; resting exactly on the surface is not a landing.
const LandingMargin = -1.0

// CollisionResult is the outcome of one collision pass.
type CollisionResult struct {
	// Won is set when the ship touched the goal. Nothing else is filled in.
	Won bool

	// Closest planet by surface distance (the attach target).
	Closest         space.PlanetIndex
	ClosestPlanet   space.Planet
	ClosestDistance float64
	HasClosest      bool

	// Landing planet, if the ship penetrates one this tick.
	Landing       space.PlanetIndex
	LandingPlanet space.Planet
	Landed        bool
}

// ResolveCollisions tests the ship against the goal and every nearby planet.
//
// Planets are visited in the world's deterministic order (area, then local
// index) and the closest planet is a strict minimum, so on exact ties the
// first planet in that order wins. When several planets overlap the ship, the
// landing goes to the one with the smallest penetration depth, again keeping
// the earlier planet on ties. At most one landing is reported.
func ResolveCollisions(w *space.Space, ship geom.Circle) CollisionResult {
	var res CollisionResult

	if geom.CirclesContact(ship, w.Goal().Circle(), 0) {
		res.Won = true
		return res
	}

	res.ClosestDistance = math.Inf(1)
	shallowest := math.Inf(1)
	for _, ref := range w.NearbyPlanets() {
		dist := geom.CircleDistance(ship, ref.Planet.Circle())

		if dist < res.ClosestDistance {
			res.ClosestDistance = dist
			res.Closest = ref.Index
			res.ClosestPlanet = ref.Planet
			res.HasClosest = true
		}

		if dist <= LandingMargin {
			depth := -dist
			if depth < shallowest {
				shallowest = depth
				res.Landing = ref.Index
				res.LandingPlanet = ref.Planet
				res.Landed = true
			}
		}
	}

	return res
}
