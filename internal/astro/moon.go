package astro

import (
	"math"
	"time"
)

// MoonEquatorial is the geocentric equatorial position of the Moon.
type MoonEquatorial struct {
	RADeg      float64 // right ascension, degrees [0, 360)
	DecDeg     float64 // declination, degrees
	DistanceKm float64 // Earth-Moon distance, kilometers
}

// MoonPhaseInfo describes the phase of the Moon at an instant.
type MoonPhaseInfo struct {
	PhaseAngleDeg float64 // Sun-Moon-Earth angle: 0 = full, 180 = new
	Illumination  float64 // illuminated fraction of the disk [0, 1]
	Waxing        bool
	PhaseName     string
}

// moonTerm is one periodic term of the truncated lunar theory: multiples of
// the fundamental arguments D, M, M', F with sine amplitude for longitude
// (1e-6 degrees) and cosine amplitude for distance (1e-3 km).
type moonTerm struct {
	d, m, mp, f int
	sinLon      float64
	cosDist     float64
}

// moonLonDistTerms are the dominant longitude/distance terms of the lunar
// theory (Meeus ch. 47, table 47.A, truncated to 30 terms).
var moonLonDistTerms = []moonTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
	{4, 0, 0, 0, 3861, -11650},
	{2, 0, -3, 0, 3665, 14403},
	{0, 1, -2, 0, -2689, -7003},
	{2, 0, -1, 2, -2602, 0},
	{2, -1, -2, 0, 2390, 10056},
}

// moonLatTerms are the dominant latitude terms (table 47.B, truncated),
// sine amplitudes in 1e-6 degrees.
var moonLatTerms = []moonTerm{
	{0, 0, 0, 1, 5128122, 0},
	{0, 0, 1, 1, 280602, 0},
	{0, 0, 1, -1, 277693, 0},
	{2, 0, 0, -1, 173237, 0},
	{2, 0, -1, 1, 55413, 0},
	{2, 0, -1, -1, 46271, 0},
	{2, 0, 0, 1, 32573, 0},
	{0, 0, 2, 1, 17198, 0},
	{2, 0, 1, -1, 9266, 0},
	{0, 0, 2, -1, 8822, 0},
	{2, -1, 0, -1, 8216, 0},
	{2, 0, -2, -1, 4324, 0},
	{2, 0, 1, 1, 4200, 0},
}

// moonFundamentals returns the five fundamental lunar arguments in degrees
// plus the eccentricity factor E for Julian centuries T.
func moonFundamentals(T float64) (Lp, D, M, Mp, F, E float64) {
	Lp = Normalize360(Polynomial(T, 218.3164477, 481267.88123421, -0.0015786, 1/538841.0, -1/65194000.0))
	D = Normalize360(Polynomial(T, 297.8501921, 445267.1114034, -0.0018819, 1/545868.0, -1/113065000.0))
	M = Normalize360(Polynomial(T, 357.5291092, 35999.0502909, -0.0001536, 1/24490000.0))
	Mp = Normalize360(Polynomial(T, 134.9633964, 477198.8675055, 0.0087414, 1/69699.0, -1/14712000.0))
	F = Normalize360(Polynomial(T, 93.2720950, 483202.0175233, -0.0036539, -1/3526000.0, 1/863310000.0))
	E = Polynomial(T, 1, -0.002516, -0.0000074)
	return
}

// MoonPosition computes the geocentric equatorial position of the Moon from
// the truncated periodic series. Terms involving the Sun's mean anomaly are
// scaled by E (or E^2) to track the slow change of Earth's orbital
// eccentricity. Nutation in longitude is applied before the rotation to
// equatorial coordinates.
func MoonPosition(t time.Time) (MoonEquatorial, error) {
	t = t.UTC()
	if y := t.Year(); y < 1000 || y > 3000 {
		return MoonEquatorial{}, &PrecisionError{Op: "moon", Err: ErrTimeOutOfRange}
	}

	T := JulianCenturies(t)
	Lp, D, M, Mp, F, E := moonFundamentals(T)

	Dr := DegToRad(D)
	Mr := DegToRad(M)
	Mpr := DegToRad(Mp)
	Fr := DegToRad(F)

	var sumLon, sumDist float64 // 1e-6 deg, 1e-3 km
	for _, tm := range moonLonDistTerms {
		arg := float64(tm.d)*Dr + float64(tm.m)*Mr + float64(tm.mp)*Mpr + float64(tm.f)*Fr
		scale := 1.0
		switch tm.m {
		case 1, -1:
			scale = E
		case 2, -2:
			scale = E * E
		}
		sumLon += tm.sinLon * scale * math.Sin(arg)
		sumDist += tm.cosDist * scale * math.Cos(arg)
	}

	var sumLat float64 // 1e-6 deg
	for _, tm := range moonLatTerms {
		arg := float64(tm.d)*Dr + float64(tm.m)*Mr + float64(tm.mp)*Mpr + float64(tm.f)*Fr
		scale := 1.0
		switch tm.m {
		case 1, -1:
			scale = E
		case 2, -2:
			scale = E * E
		}
		sumLat += tm.sinLon * scale * math.Sin(arg)
	}

	// Additive terms from the action of Venus (A1), Jupiter (A2) and the
	// flattening of Earth (A3).
	A1 := DegToRad(Normalize360(119.75 + 131.849*T))
	A2 := DegToRad(Normalize360(53.09 + 479264.290*T))
	A3 := DegToRad(Normalize360(313.45 + 481266.484*T))
	Lpr := DegToRad(Lp)

	sumLon += 3958*math.Sin(A1) + 1962*math.Sin(Lpr-Fr) + 318*math.Sin(A2)
	sumLat += -2235*math.Sin(Lpr) + 382*math.Sin(A3) +
		175*math.Sin(A1-Fr) + 175*math.Sin(A1+Fr) +
		127*math.Sin(Lpr-Mpr) - 115*math.Sin(Lpr+Mpr)

	lambda := Lp + sumLon/1e6
	beta := sumLat / 1e6
	dist := 385000.56 + sumDist/1e3

	// Nutation in longitude from the lunar node, same term the solar theory
	// uses.
	omega := 125.04452 - 1934.136261*T
	lambda += -0.00478 * math.Sin(DegToRad(omega))

	eps := DegToRad(Polynomial(T, 23.439291, -0.0130042, -0.00000016, 0.000000504))

	lamRad := DegToRad(lambda)
	betRad := DegToRad(beta)

	sinDec := math.Sin(betRad)*math.Cos(eps) + math.Cos(betRad)*math.Sin(eps)*math.Sin(lamRad)
	dec := math.Asin(Clamp1(sinDec))

	y := math.Sin(lamRad)*math.Cos(eps) - math.Tan(betRad)*math.Sin(eps)
	ra := math.Atan2(y, math.Cos(lamRad))

	return MoonEquatorial{
		RADeg:      Normalize360(RadToDeg(ra)),
		DecDeg:     RadToDeg(dec),
		DistanceKm: dist,
	}, nil
}

// MoonPositionStandard is the fallback lunar position: six longitude terms,
// four latitude terms and five distance terms around the mean elements. Good
// to roughly a tenth of a degree, which keeps rise/set within a couple of
// minutes.
func MoonPositionStandard(t time.Time) MoonEquatorial {
	T := JulianCenturies(t)
	_, D, _, Mp, F, _ := moonFundamentals(T)

	Dr := DegToRad(D)
	Mpr := DegToRad(Mp)
	Fr := DegToRad(F)

	lambda := moonEclipticLongitude(t)
	beta := 5.128*math.Sin(Fr) +
		0.280*math.Sin(Mpr+Fr) +
		0.277*math.Sin(Mpr-Fr) +
		0.173*math.Sin(2*Dr-Fr)

	dist := 385000.56 -
		20905.0*math.Cos(Mpr) -
		3699.0*math.Cos(2*Dr-Mpr) -
		2956.0*math.Cos(2*Dr) -
		570.0*math.Cos(2*Mpr) -
		246.0*math.Cos(2*Dr+Mpr)

	eps := DegToRad(Polynomial(T, 23.439291, -0.0130042))

	lamRad := DegToRad(lambda)
	betRad := DegToRad(beta)

	sinDec := math.Sin(betRad)*math.Cos(eps) + math.Cos(betRad)*math.Sin(eps)*math.Sin(lamRad)
	dec := math.Asin(Clamp1(sinDec))

	y := math.Sin(lamRad)*math.Cos(eps) - math.Tan(betRad)*math.Sin(eps)
	ra := math.Atan2(y, math.Cos(lamRad))

	return MoonEquatorial{
		RADeg:      Normalize360(RadToDeg(ra)),
		DecDeg:     RadToDeg(dec),
		DistanceKm: dist,
	}
}

// MoonPhase computes the phase of the Moon from the angular separation of the
// Sun and Moon on the celestial sphere, then corrects the phase angle for the
// Sun/Moon distance ratio. Illumination is the fraction of the disk lit.
func MoonPhase(t time.Time) (MoonPhaseInfo, error) {
	moon, err := MoonPosition(t)
	if err != nil {
		return MoonPhaseInfo{}, err
	}
	sun, err := SunPosition(t)
	if err != nil {
		return MoonPhaseInfo{}, err
	}

	psi := AngularSeparation(
		DegToRad(sun.RADeg), DegToRad(sun.DecDeg),
		DegToRad(moon.RADeg), DegToRad(moon.DecDeg),
	)

	// Phase angle with the distance-ratio correction: for a hypothetical
	// infinitely distant Sun this reduces to pi - psi.
	const kmPerAU = 149597870.7
	sunKm := sun.DistanceAU * kmPerAU
	// Atan2 lands in [0, pi]: conjunction gives i near pi, opposition near 0.
	i := math.Atan2(sunKm*math.Sin(psi), moon.DistanceKm-sunKm*math.Cos(psi))

	illum := (1 + math.Cos(i)) / 2
	if illum < 0 {
		illum = 0
	} else if illum > 1 {
		illum = 1
	}

	waxing := moonWaxing(t)

	return MoonPhaseInfo{
		PhaseAngleDeg: RadToDeg(i),
		Illumination:  illum,
		Waxing:        waxing,
		PhaseName:     phaseName(illum, waxing),
	}, nil
}

// MoonPhaseStandard is the fallback phase calculation. It deliberately does
// not delegate to MoonPosition: it compares the ecliptic longitudes of the
// Moon and Sun directly, with six periodic corrections to the lunar
// longitude, so the two paths fail independently.
func MoonPhaseStandard(t time.Time) MoonPhaseInfo {
	elong := Normalize360(moonEclipticLongitude(t) - SunEclipticLongitude(t))
	elongRad := DegToRad(elong)

	illum := (1 - math.Cos(elongRad)) / 2
	phaseAngle := 180 - elong
	if phaseAngle < 0 {
		phaseAngle = -phaseAngle
	}
	waxing := elong < 180

	return MoonPhaseInfo{
		PhaseAngleDeg: phaseAngle,
		Illumination:  illum,
		Waxing:        waxing,
		PhaseName:     phaseName(illum, waxing),
	}
}

// moonEclipticLongitude is the six-term lunar longitude used by the standard
// phase path.
func moonEclipticLongitude(t time.Time) float64 {
	T := JulianCenturies(t)
	_, D, M, Mp, F, _ := moonFundamentals(T)
	Lp := Polynomial(T, 218.3164477, 481267.88123421, -0.0015786, 1/538841.0, -1/65194000.0)

	Dr := DegToRad(D)
	Mr := DegToRad(M)
	Mpr := DegToRad(Mp)
	Fr := DegToRad(F)

	lambda := Lp +
		6.289*math.Sin(Mpr) +
		1.274*math.Sin(2*Dr-Mpr) +
		0.658*math.Sin(2*Dr) +
		0.214*math.Sin(2*Mpr) -
		0.186*math.Sin(Mr) -
		0.114*math.Sin(2*Fr)

	return Normalize360(lambda)
}

// moonWaxing reports whether the Moon-Sun elongation is below 180 degrees.
func moonWaxing(t time.Time) bool {
	return Normalize360(moonEclipticLongitude(t)-SunEclipticLongitude(t)) < 180
}

// phaseName buckets illumination and direction into the eight named phases.
// Small tolerance windows pin the four principal phases, matching how
// almanacs label days near the exact events.
func phaseName(illumination float64, waxing bool) string {
	switch {
	case illumination < 0.02:
		return "New Moon"
	case illumination > 0.98:
		return "Full Moon"
	case illumination >= 0.48 && illumination <= 0.52:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case illumination < 0.48:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
