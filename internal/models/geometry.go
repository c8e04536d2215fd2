package models

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSONPolygon represents a GeoJSON Polygon plot boundary for API input.
type GeoJSONPolygon struct {
	Type        string        `json:"type" binding:"required,eq=Polygon"`
	Coordinates [][][]float64 `json:"coordinates" binding:"required"`
}

// Centroid resolves the boundary to a representative point for weather
// lookup. Coordinates follow GeoJSON order, so the outer ring is [lon, lat]
// pairs and the result is returned as (lat, lon).
func (g *GeoJSONPolygon) Centroid() (float64, float64, error) {
	geoJSONBytes, err := json.Marshal(g)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}

	var geometry geom.T
	if err := geojson.Unmarshal(geoJSONBytes, &geometry); err != nil {
		return 0, 0, fmt.Errorf("failed to unmarshal GeoJSON: %w", err)
	}

	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return 0, 0, fmt.Errorf("geometry is not a Polygon")
	}
	if polygon.NumLinearRings() == 0 {
		return 0, 0, fmt.Errorf("polygon has no rings")
	}

	coords := polygon.LinearRing(0).Coords()
	if len(coords) < 3 {
		return 0, 0, fmt.Errorf("polygon ring needs at least 3 points, got %d", len(coords))
	}

	// GeoJSON rings repeat the first point at the end; drop the duplicate so
	// the shoelace walk closes the ring exactly once.
	n := len(coords)
	if coords[0].X() == coords[n-1].X() && coords[0].Y() == coords[n-1].Y() {
		n--
	}
	if n < 3 {
		return 0, 0, fmt.Errorf("polygon ring needs at least 3 distinct points")
	}

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x0, y0 := coords[i].X(), coords[i].Y()
		x1, y1 := coords[j].X(), coords[j].Y()
		cross := x0*y1 - x1*y0
		area += cross
		cx += (x0 + x1) * cross
		cy += (y0 + y1) * cross
	}
	area /= 2

	// Zero-area rings have no shoelace centroid; the vertex mean is close
	// enough for a weather lookup.
	if area == 0 {
		var sumX, sumY float64
		for i := 0; i < n; i++ {
			sumX += coords[i].X()
			sumY += coords[i].Y()
		}
		return sumY / float64(n), sumX / float64(n), nil
	}

	cx /= 6 * area
	cy /= 6 * area
	return cy, cx, nil
}
