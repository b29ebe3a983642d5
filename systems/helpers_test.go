package systems

import (
	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
)

// layout is a hand-placed world: fixed chunks per area, empty elsewhere.
type layout struct {
	chunks map[space.Area]space.Chunk
	goal   space.Goal
}

func (l layout) Generate(a space.Area) space.Chunk {
	return l.chunks[a]
}

func (l layout) Goal() space.Goal {
	return l.goal
}

// newLayoutWorld builds a world whose origin area holds the given planets and
// enemies. The goal sits far away unless overridden.
func newLayoutWorld(planets []space.Planet, enemies []space.EnemySeed, goal *space.Goal) (*space.Space, *config.Config) {
	cfg := config.Default()
	l := layout{
		chunks: map[space.Area]space.Chunk{
			{}: {Planets: planets, Enemies: enemies},
		},
		goal: space.Goal{Pos: geom.Pt(1e6, 1e6), Radius: 200},
	}
	if goal != nil {
		l.goal = *goal
	}
	return space.New(cfg, l, nil), cfg
}
