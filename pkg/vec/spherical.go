package vec

import "math"

// Spherical holds spherical coordinates in degrees. Theta is the azimuth
// measured in the xy plane from the x axis, Phi the inclination from the z
// axis.
type Spherical struct {
	Theta, Phi, Radius float64
}

// Cartesian converts s to a cartesian vector.
func (s Spherical) Cartesian() Vec3 {
	theta := s.Theta * math.Pi / 180
	phi := s.Phi * math.Pi / 180
	return Vec3{
		X: s.Radius * math.Cos(theta) * math.Sin(phi),
		Y: s.Radius * math.Sin(theta) * math.Sin(phi),
		Z: s.Radius * math.Cos(phi),
	}
}

// ToSpherical converts a cartesian vector. The zero vector maps to the
// zero Spherical.
func ToSpherical(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Theta:  math.Atan2(v.Y, v.X) * 180 / math.Pi,
		Phi:    math.Acos(v.Z/r) * 180 / math.Pi,
		Radius: r,
	}
}

// Orbit moves p on the sphere centered at center by the given azimuth and
// inclination deltas (degrees), keeping its distance from center.
func Orbit(p, center Point, dTheta, dPhi float64) Point {
	s := ToSpherical(p.Sub(center))
	s.Theta += dTheta
	s.Phi = math.Max(0, math.Min(180, s.Phi+dPhi))
	return center.Translate(s.Cartesian())
}
