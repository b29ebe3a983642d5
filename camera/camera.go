// Package camera provides the 2D viewport that follows the ship.
package camera

import (
	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
)

// Camera controls the viewport into the world. The world is an unbounded
// plane, so there is no wrapping and no lower zoom bound from world size.
type Camera struct {
	// Center is the camera center in world coordinates
	Center geom.Point

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	// Follow parameters
	PlanetFollow float64 // Lerp factor toward the attached planet while grounded
	FreeFollow   float64 // Lerp factor toward the dead-zone edge while airborne
	Margin       float64 // Fraction of the view kept between the ship and each edge
}

// New creates a camera at the world origin with 1:1 zoom.
func New(cfg config.CameraConfig) *Camera {
	return &Camera{
		Zoom:         1.0,
		ViewportW:    cfg.ViewportWidth,
		ViewportH:    cfg.ViewportHeight,
		MinZoom:      cfg.MinZoom,
		MaxZoom:      cfg.MaxZoom,
		PlanetFollow: cfg.PlanetFollow,
		FreeFollow:   cfg.FreeFollow,
		Margin:       cfg.Margin,
	}
}

// ViewSize returns the visible extent in world units.
func (c *Camera) ViewSize() (w, h float64) {
	return c.ViewportW / c.Zoom, c.ViewportH / c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Point) (sx, sy float64) {
	sx = c.ViewportW/2 + (p.X-c.Center.X)*c.Zoom
	sy = c.ViewportH/2 + (p.Y-c.Center.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates (a cursor) to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) geom.Point {
	return geom.Pt(
		c.Center.X+(sx-c.ViewportW/2)/c.Zoom,
		c.Center.Y+(sy-c.ViewportH/2)/c.Zoom,
	)
}

// IsVisible reports whether any part of the circle is inside the view.
func (c *Camera) IsVisible(circle geom.Circle) bool {
	w, h := c.ViewSize()
	dx := circle.Center.X - c.Center.X
	dy := circle.Center.Y - c.Center.Y
	return abs(dx) <= w/2+circle.Radius && abs(dy) <= h/2+circle.Radius
}

// Follow eases the camera for one tick. While grounded it drifts toward the
// attached planet's center. While airborne it only moves once the ship
// leaves the central dead zone, then eases toward keeping it on the edge.
func (c *Camera) Follow(ship, planet geom.Point, grounded bool) {
	if grounded {
		c.Center = geom.Pt(
			geom.Lerp(c.Center.X, planet.X, c.PlanetFollow),
			geom.Lerp(c.Center.Y, planet.Y, c.PlanetFollow),
		)
		return
	}

	w, h := c.ViewSize()
	target := geom.Pt(
		deadZone(c.Center.X, ship.X, w/2-c.Margin*w),
		deadZone(c.Center.Y, ship.Y, h/2-c.Margin*h),
	)
	c.Center = geom.Pt(
		geom.Lerp(c.Center.X, target.X, c.FreeFollow),
		geom.Lerp(c.Center.Y, target.Y, c.FreeFollow),
	)
}

// deadZone returns the center that puts v on the nearest edge of the
// half-width band around center, or center if v is already inside.
func deadZone(center, v, half float64) float64 {
	switch {
	case v > center+half:
		return v - half
	case v < center-half:
		return v + half
	}
	return center
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = geom.Clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset snaps the camera to center with 1:1 zoom.
func (c *Camera) Reset(center geom.Point) {
	c.Center = center
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate corners of the visible area.
func (c *Camera) VisibleWorldBounds() (min, max geom.Point) {
	w, h := c.ViewSize()
	min = geom.Pt(c.Center.X-w/2, c.Center.Y-h/2)
	max = geom.Pt(c.Center.X+w/2, c.Center.Y+h/2)
	return min, max
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
