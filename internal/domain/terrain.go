package domain

// Terrain classifies a coordinate for threshold selection.
type Terrain string

const (
	TerrainStandard Terrain = "standard"
	TerrainHighland Terrain = "highland"
)

// BoundingBox is a latitude/longitude rectangle, inclusive on every edge.
type BoundingBox struct {
	Name   string
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether c lies inside or on the edge of the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}

// HighlandRegions are the rectangles treated as highland terrain. Mountain
// convective weather there can mimic typhoon signatures, so current-conditions
// thresholds are stricter.
var HighlandRegions = []BoundingBox{
	{Name: "cordillera", MinLat: 16.0, MaxLat: 18.5, MinLon: 120.4, MaxLon: 121.5},
	{Name: "bukidnon", MinLat: 7.5, MaxLat: 8.6, MinLon: 124.6, MaxLon: 125.4},
}

// TerrainProfile carries the terrain class and the current-conditions
// signatures resolved for it. A nil TropicalStorm disables tier 2.
type TerrainProfile struct {
	Terrain       Terrain
	Region        string
	Typhoon       StormSignature
	TropicalStorm *StormSignature
}

// ClassifyTerrain returns the terrain class and matching region name for a coordinate.
func ClassifyTerrain(c Coordinate) (Terrain, string) {
	for _, box := range HighlandRegions {
		if box.Contains(c) {
			return TerrainHighland, box.Name
		}
	}
	return TerrainStandard, ""
}

// ResolveTerrain builds the TerrainProfile for a coordinate from the threshold table.
func ResolveTerrain(c Coordinate, t Thresholds) TerrainProfile {
	terrain, region := ClassifyTerrain(c)
	profile := TerrainProfile{
		Terrain: terrain,
		Region:  region,
		Typhoon: t.CurrentTyphoon[terrain],
	}
	if storm, ok := t.CurrentStorm[terrain]; ok {
		profile.TropicalStorm = &storm
	}
	return profile
}
