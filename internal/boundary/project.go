package boundary

import "math"

// albers is a spherical Albers equal-area conic projection on the unit
// sphere, followed by a scale and offset so that insets can be placed next
// to the lower 48.
type albers struct {
	lon0, n, c, rho0 float64
	scale, dx, dy    float64
}

func newAlbers(lon0, lat0, lat1, lat2, scale, dx, dy float64) albers {
	phi0, phi1, phi2 := radians(lat0), radians(lat1), radians(lat2)
	n := (math.Sin(phi1) + math.Sin(phi2)) / 2
	c := math.Cos(phi1)*math.Cos(phi1) + 2*n*math.Sin(phi1)
	return albers{
		lon0:  lon0,
		n:     n,
		c:     c,
		rho0:  math.Sqrt(c-2*n*math.Sin(phi0)) / n,
		scale: scale,
		dx:    dx,
		dy:    dy,
	}
}

func (a albers) project(lon, lat float64) (x, y float64) {
	rho := math.Sqrt(a.c-2*a.n*math.Sin(radians(lat))) / a.n
	theta := a.n * radians(lon-a.lon0)
	x = rho * math.Sin(theta)
	y = a.rho0 - rho*math.Cos(theta)
	return x*a.scale + a.dx, y*a.scale + a.dy
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Projection maps longitude/latitude of a state to plane coordinates.
type Projection func(code int, lon, lat float64) (x, y float64)

// State codes drawn as insets.
const (
	alaskaCode = 2
	hawaiiCode = 15
)

// AlbersUSA projects the lower 48 with the usual USGS Albers parameters and
// moves Alaska and Hawaii into insets below the southwest corner, the way
// the albersUsa composite of d3 and Vega does.
func AlbersUSA() Projection {
	lower48 := newAlbers(-96, 37.5, 29.5, 45.5, 1, 0, 0)
	alaska := newAlbers(-154, 50, 55, 65, 0.35, -0.34, -0.26)
	hawaii := newAlbers(-157, 3, 8, 18, 1, -0.20, -0.50)

	return func(code int, lon, lat float64) (float64, float64) {
		switch code {
		case alaskaCode:
			return alaska.project(lon, lat)
		case hawaiiCode:
			return hawaii.project(lon, lat)
		default:
			return lower48.project(lon, lat)
		}
	}
}

// Equirectangular leaves coordinates unprojected.
func Equirectangular() Projection {
	return func(_ int, lon, lat float64) (float64, float64) { return lon, lat }
}
