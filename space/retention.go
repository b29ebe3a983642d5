package space

import "slices"

// evict drops the least recently touched areas once more than MaxAreas are
// materialized. Areas within Retention.Radius of the focus and the anchored
// area are never dropped, so handles in use by the current tick stay valid.
func (s *Space) evict() {
	limit := s.keep.MaxAreas
	if limit <= 0 || len(s.areas) <= limit {
		return
	}

	var candidates []Area
	for a := range s.areas {
		if a.Chebyshev(s.focusArea) <= s.keep.Radius {
			continue
		}
		if s.hasAnchor && a == s.anchor {
			continue
		}
		candidates = append(candidates, a)
	}
	slices.SortFunc(candidates, func(a, b Area) int {
		ta, tb := s.areas[a].lastTouch, s.areas[b].lastTouch
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})

	excess := len(s.areas) - limit
	for _, a := range candidates {
		if excess <= 0 {
			break
		}
		s.drop(a)
		excess--
	}
}

// drop forgets an area and its enemies. Tombstones survive so the area
// regenerates without the enemies already killed there.
func (s *Space) drop(a Area) {
	for id := range s.areas[a].enemies {
		delete(s.enemyArea, id)
	}
	delete(s.areas, a)
	s.evicted++
	s.log.Debug("evicted area", "area", a.String(), "remaining", len(s.areas))
}
