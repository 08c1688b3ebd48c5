package sim

import (
	"math"

	"airshield-sim/internal/geo"
)

// velocity is a planar degree-space velocity in degrees per simulated
// second. Threat speeds are stylized scalars, so degree space is the
// consistent frame for the pursuit solve.
type velocity struct {
	dLat float64
	dLng float64
}

// headingVelocity returns the velocity along the straight bearing from
// start to target at the given speed. A degenerate start==target pair
// yields a zero velocity.
func headingVelocity(start, target geo.Position, speed float64) velocity {
	dLat := target.Lat - start.Lat
	dLng := target.Lng - start.Lng
	norm := math.Hypot(dLat, dLng)
	if norm == 0 {
		return velocity{}
	}
	return velocity{dLat: dLat / norm * speed, dLng: dLng / norm * speed}
}

// stepToward advances from toward to by at most speed*dt degrees, never
// overshooting the destination.
func stepToward(from, to geo.Position, speed, dt float64) geo.Position {
	dLat := to.Lat - from.Lat
	dLng := to.Lng - from.Lng
	dist := math.Hypot(dLat, dLng)
	step := speed * dt
	if dist == 0 || step >= dist {
		return to
	}
	return geo.Position{
		Lat: from.Lat + dLat/dist*step,
		Lng: from.Lng + dLng/dist*step,
	}
}

// solveIntercept solves the classic pursuit equation: find the earliest
// time t >= 0 at which a shot launched now from base, closing at
// shotSpeed, meets a threat moving from threatPos with velocity v. The
// quadratic is a*t^2 + b*t + c = 0 with
//
//	a = |v|^2 - shotSpeed^2
//	b = 2 * (v . delta)
//	c = |delta|^2, delta = threatPos - base
//
// ok is false when no non-negative real solution exists (the shot can
// never catch up).
func solveIntercept(threatPos geo.Position, v velocity, base geo.Position, shotSpeed float64) (t float64, point geo.Position, ok bool) {
	dLat := threatPos.Lat - base.Lat
	dLng := threatPos.Lng - base.Lng

	a := v.dLat*v.dLat + v.dLng*v.dLng - shotSpeed*shotSpeed
	b := 2 * (v.dLat*dLat + v.dLng*dLng)
	c := dLat*dLat + dLng*dLng

	if math.Abs(a) < 1e-12 {
		// Shot exactly matches the threat speed; the quadratic collapses
		// to b*t + c = 0.
		if b >= 0 {
			if c == 0 {
				return 0, threatPos, true
			}
			return 0, geo.Position{}, false
		}
		t = -c / b
		return t, interceptPoint(threatPos, v, t), true
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, geo.Position{}, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	switch {
	case t1 >= 0:
		t = t1
	case t2 >= 0:
		t = t2
	default:
		return 0, geo.Position{}, false
	}
	return t, interceptPoint(threatPos, v, t), true
}

func interceptPoint(p geo.Position, v velocity, t float64) geo.Position {
	return geo.Position{Lat: p.Lat + v.dLat*t, Lng: p.Lng + v.dLng*t}
}
