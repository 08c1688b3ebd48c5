// Package coverage scores a defense layout by sampling a geographic grid.
package coverage

import (
	"math"

	"airshield-sim/internal/config"
	"airshield-sim/internal/defense"
	"airshield-sim/internal/geo"
)

// Result holds the aggregated coverage percentages, all in [0,100].
type Result struct {
	CombinedLandPct    float64 `json:"combined_land_pct"`
	CombinedCityPct    float64 `json:"combined_city_pct"`
	CombinedSeaPct     float64 `json:"combined_sea_pct"`
	RadarLandPct       float64 `json:"radar_land_pct"`
	InterceptorLandPct float64 `json:"interceptor_land_pct"`
	GridSide           int     `json:"grid_side"`
}

// Score collapses a Result into a single fitness value for search loops.
// Land coverage dominates; protecting cities breaks ties between layouts
// with similar area coverage.
func (r Result) Score() float64 {
	return 0.7*r.CombinedLandPct + 0.3*r.CombinedCityPct
}

// Evaluate computes coverage for a layout over the configured region. The
// grid has floor(sqrt(samples))^2 cells; each cell center is classified as
// land or sea and tested against every active unit. A missing region, or
// one whose rings cannot enclose area, means every sample counts as land.
func Evaluate(units []defense.Unit, region []geo.Ring, bbox geo.BoundingBox, cities []config.City, samples int) Result {
	region = usableRings(region)

	side := int(math.Floor(math.Sqrt(float64(samples))))
	if side < 1 {
		side = 1
	}

	radars := defense.Radars(units)
	interceptors := defense.Interceptors(units)

	var landTotal, seaTotal int
	var landBoth, landRadar, landInterceptor, seaBoth int

	latStep := (bbox.MaxLat - bbox.MinLat) / float64(side)
	lngStep := (bbox.MaxLng - bbox.MinLng) / float64(side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			p := geo.Position{
				Lat: bbox.MinLat + (float64(i)+0.5)*latStep,
				Lng: bbox.MinLng + (float64(j)+0.5)*lngStep,
			}
			land := len(region) == 0 || geo.PointInRings(p, region)
			radar := defense.PointCovered(radars, p)
			interceptor := defense.PointCovered(interceptors, p)
			if land {
				landTotal++
				if radar {
					landRadar++
				}
				if interceptor {
					landInterceptor++
				}
				if radar && interceptor {
					landBoth++
				}
			} else {
				seaTotal++
				if radar && interceptor {
					seaBoth++
				}
			}
		}
	}

	var cityWeight, cityCovered float64
	for _, c := range cities {
		cityWeight += c.Weight
		p := c.Position()
		if defense.PointCovered(radars, p) && defense.PointCovered(interceptors, p) {
			cityCovered += c.Weight
		}
	}

	return Result{
		CombinedLandPct:    pct(landBoth, landTotal),
		CombinedCityPct:    pctf(cityCovered, cityWeight),
		CombinedSeaPct:     pct(seaBoth, seaTotal),
		RadarLandPct:       pct(landRadar, landTotal),
		InterceptorLandPct: pct(landInterceptor, landTotal),
		GridSide:           side,
	}
}

// EvaluateConfig scores the layout described by a simulation config.
func EvaluateConfig(cfg *config.SimulationConfig) Result {
	return Evaluate(cfg.DefenseUnits(), cfg.Region, cfg.BBox, cfg.Cities, cfg.CoverageSamples)
}

// usableRings drops rings with fewer than three vertices. They cannot
// enclose area, and a region reduced to nothing must fall back to the
// all-land default rather than classify every sample as sea.
func usableRings(region []geo.Ring) []geo.Ring {
	var rings []geo.Ring
	for _, ring := range region {
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings
}

func pct(n, total int) float64 {
	return pctf(float64(n), float64(total))
}

func pctf(n, total float64) float64 {
	if total == 0 {
		return 0
	}
	return n / total * 100
}
