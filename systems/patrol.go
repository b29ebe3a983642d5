package systems

import (
	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
)

// PatrolResult reports what the patrol pass found.
type PatrolResult struct {
	ShipHit bool            // An enemy touched the ship
	Killed  []space.EnemyID // Enemies removed after being hit by a projectile
}

// Patrol advances every nearby enemy along its host's surface and runs the
// enemy hit tests. Kills are collected during the scan and removed from the
// world only after it completes.
func Patrol(w *space.Space, dt, speed float64, ship geom.Circle, shots *ProjectileSystem, shotRadius float64) PatrolResult {
	var res PatrolResult
	enemyR := w.EnemyRadius()

	for _, ref := range w.NearbyEnemies() {
		e := ref.Enemy
		if e.Clockwise {
			e.Phase += speed * dt
		} else {
			e.Phase -= speed * dt
		}
		e.Phase = geom.NormalizeAngle(e.Phase)
		w.MoveEnemy(e.ID, e.Phase)

		body := geom.Circle{Center: w.EnemyPosition(e), Radius: enemyR}
		if geom.CirclesContact(body, ship, 0) {
			res.ShipHit = true
		}
		if shots != nil && shots.Hits(body, shotRadius) {
			res.Killed = append(res.Killed, e.ID)
		}
	}

	for _, id := range res.Killed {
		w.RemoveEnemy(id)
	}
	return res
}
