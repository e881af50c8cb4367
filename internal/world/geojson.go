package world

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders the world for a map client: one feature per
// continent outline followed by one feature per province.
func (w *World) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, c := range w.Continents {
		f := geojson.NewFeature(c.Outline)
		f.Properties["kind"] = "continent"
		f.Properties["faction_id"] = c.FactionID
		if fac := w.Faction(c.FactionID); fac != nil {
			f.Properties["faction"] = fac.Name
		}
		fc.Append(f)
	}

	for _, p := range w.Provinces {
		f := geojson.NewFeature(orb.Polygon{p.Border})
		f.ID = p.ID
		f.Properties["kind"] = "province"
		f.Properties["ocean"] = p.IsOcean
		f.Properties["elevation"] = p.Elevation
		if !p.IsOcean {
			f.Properties["name"] = p.Name
			f.Properties["faction_id"] = p.FactionID
			f.Properties["city"] = p.City != nil
			f.Properties["capital"] = p.IsCapital()
			f.Properties["port"] = p.Port != nil
			f.Properties["fort"] = p.Fort != nil
			units := 0
			for _, a := range p.Armies {
				units += a.Units
			}
			f.Properties["units"] = units
		}
		fc.Append(f)
	}
	return fc
}
