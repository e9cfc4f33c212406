package astro

import (
	"fmt"
	"math"
)

// Conditions describes the atmosphere at the observing site.
type Conditions struct {
	TemperatureC float64 // air temperature, Celsius
	PressureHPa  float64 // station pressure, hPa
	HumidityPct  float64 // relative humidity, percent [0, 100]
	WavelengthNm float64 // observation wavelength, nm
}

// StandardConditions is the reference atmosphere all models are normalized
// against: 15 C, 1013.25 hPa, dry air, 550 nm (visual).
var StandardConditions = Conditions{
	TemperatureC: 15,
	PressureHPa:  1013.25,
	HumidityPct:  0,
	WavelengthNm: 550,
}

// normalized treats a zero Conditions literal as the standard atmosphere and
// fills unset pressure/wavelength fields on partially specified values.
func (c Conditions) normalized() Conditions {
	if c == (Conditions{}) {
		return StandardConditions
	}
	if c.PressureHPa == 0 {
		c.PressureHPa = StandardConditions.PressureHPa
	}
	if c.WavelengthNm == 0 {
		c.WavelengthNm = StandardConditions.WavelengthNm
	}
	return c
}

// RefractionModel selects one of the interchangeable refraction formulas.
type RefractionModel int

const (
	RefractionBennett RefractionModel = iota
	RefractionSaemundsson
	RefractionAuerStandish
	RefractionHohenkerkSinclair
	RefractionSimple
)

// String returns the model name.
func (m RefractionModel) String() string {
	switch m {
	case RefractionBennett:
		return "bennett"
	case RefractionSaemundsson:
		return "saemundsson"
	case RefractionAuerStandish:
		return "auer-standish"
	case RefractionHohenkerkSinclair:
		return "hohenkerk-sinclair"
	case RefractionSimple:
		return "simple"
	default:
		return "unknown"
	}
}

// ParseRefractionModel parses a model name.
func ParseRefractionModel(s string) (RefractionModel, error) {
	switch s {
	case "bennett", "":
		return RefractionBennett, nil
	case "saemundsson":
		return RefractionSaemundsson, nil
	case "auer-standish":
		return RefractionAuerStandish, nil
	case "hohenkerk-sinclair":
		return RefractionHohenkerkSinclair, nil
	case "simple":
		return RefractionSimple, nil
	default:
		return RefractionBennett, fmt.Errorf("astro: unknown refraction model %q", s)
	}
}

// floorDeg is the altitude below which each model returns exactly zero
// instead of extrapolating a spurious correction.
func (m RefractionModel) floorDeg() float64 {
	switch m {
	case RefractionBennett:
		return -1.0
	case RefractionSaemundsson:
		// The cotangent argument h + 10.3/(h+5.11) bottoms out at h = -1.90;
		// below that the fit turns back upward.
		return -1.9
	case RefractionAuerStandish, RefractionHohenkerkSinclair:
		return -1.0
	case RefractionSimple:
		return -1.0
	default:
		return -1.0
	}
}

// Refraction returns the refraction correction in degrees for an apparent
// altitude in degrees. The correction is added to the apparent altitude. The
// nominal model value is scaled by the refractivity ratio of the given
// conditions against the standard atmosphere, which carries the pressure,
// temperature, humidity and wavelength (chromatic) dependence.
func Refraction(apparentAltDeg float64, cond Conditions, model RefractionModel) float64 {
	if apparentAltDeg < model.floorDeg() || apparentAltDeg > 90 {
		return 0
	}

	var nominalDeg float64
	switch model {
	case RefractionBennett:
		nominalDeg = bennettDeg(apparentAltDeg)
	case RefractionSaemundsson:
		nominalDeg = saemundssonDeg(apparentAltDeg)
	case RefractionAuerStandish:
		// Classic two-term tan(z) series coefficients in arcseconds.
		nominalDeg = tanSeriesDeg(apparentAltDeg, 58.294, -0.0668, 80.0)
	case RefractionHohenkerkSinclair:
		nominalDeg = tanSeriesDeg(apparentAltDeg, 58.276, -0.0824, 80.0)
	case RefractionSimple:
		nominalDeg = simpleDeg(apparentAltDeg)
	}

	return nominalDeg * refractivityRatio(cond.normalized())
}

// bennettDeg is Bennett's cotangent formula, split into a high-altitude
// branch using the arcsecond tan series and the low-altitude cotangent fit.
func bennettDeg(hDeg float64) float64 {
	if hDeg >= 15 {
		tanH := math.Tan(DegToRad(hDeg))
		arcsec := 58.1/tanH - 0.07/math.Pow(tanH, 3) + 0.000086/math.Pow(tanH, 5)
		return arcsec / 3600.0
	}
	arcmin := 1.02 / math.Tan(DegToRad(hDeg+10.3/(hDeg+5.11)))
	return arcmin / 60.0
}

// saemundssonDeg is the Bennett cotangent shape with Saemundsson's small
// additive correction.
func saemundssonDeg(hDeg float64) float64 {
	arcmin := 1.02/math.Tan(DegToRad(hDeg+10.3/(hDeg+5.11))) + 0.0019279
	return arcmin / 60.0
}

// tanSeriesDeg evaluates an odd-power polynomial in tan(z) with arcsecond
// coefficients a*tan(z) + b*tan(z)^3, switching to a linear continuation past
// a cutoff zenith distance. The negative cubic term overtakes the linear one
// near z = 86.5, so the cutoff must sit well before that peak, where the
// series still increases toward the horizon: the continuation then inherits
// a positive slope and the correction stays positive and monotone down to
// the altitude floor.
func tanSeriesDeg(hDeg, a, b, cutoffZDeg float64) float64 {
	z := 90 - hDeg
	if z <= cutoffZDeg {
		tanZ := math.Tan(DegToRad(z))
		return (a*tanZ + b*tanZ*tanZ*tanZ) / 3600.0
	}

	// Continue linearly from the cutoff with the slope there, in deg per
	// deg of zenith distance.
	const dz = 0.01
	r0 := tanSeriesDeg(90-cutoffZDeg, a, b, cutoffZDeg+1)
	r1 := tanSeriesDeg(90-cutoffZDeg+dz, a, b, cutoffZDeg+1)
	slope := (r0 - r1) / dz
	return r0 + slope*(z-cutoffZDeg)
}

// simpleDeg is a single cotangent formula with no branch handling.
func simpleDeg(hDeg float64) float64 {
	arcmin := 1.0 / math.Tan(DegToRad(hDeg+7.31/(hDeg+4.4)))
	return arcmin / 60.0
}

// refractivityRatio returns the ratio of air refractivity under the given
// conditions to the standard atmosphere, from an Edlen-type dispersion
// formula. Shorter wavelengths refract more; warm, thin or humid air less.
func refractivityRatio(c Conditions) float64 {
	num := refractivity(c)
	den := refractivity(StandardConditions)
	if den == 0 {
		return 1
	}
	r := num / den
	if r < 0 {
		return 0
	}
	return r
}

// refractivity returns (n-1)*1e8 for the given conditions.
func refractivity(c Conditions) float64 {
	// Wavenumber squared in um^-2.
	um := c.WavelengthNm / 1000.0
	if um <= 0 {
		um = 0.55
	}
	s2 := 1 / (um * um)

	// Edlen dispersion for standard air (15 C, 1013.25 hPa, dry).
	nStd := 8342.54 + 2406147.0/(130.0-s2) + 15998.0/(38.9-s2)

	// Density scaling to actual temperature and pressure.
	tK := c.TemperatureC + 273.15
	if tK <= 0 {
		tK = 288.15
	}
	n := nStd * (c.PressureHPa / 1013.25) * (288.15 / tK)

	// Water vapor reduces refractivity slightly.
	if c.HumidityPct > 0 {
		e := saturationPressureHPa(c.TemperatureC) * c.HumidityPct / 100.0
		n -= e * (3.7345 - 0.0401*s2) * 0.1
	}

	return n
}

// saturationPressureHPa is the Magnus formula for saturation vapor pressure.
func saturationPressureHPa(tempC float64) float64 {
	return 6.1078 * math.Exp(17.27*tempC/(tempC+237.3))
}
