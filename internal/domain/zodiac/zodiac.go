// Package zodiac provides the circular-longitude model and the fixed
// twelve-sign classification tables shared by every analysis component.
package zodiac

import (
	"fmt"
	"math"
)

// Geometry constants for the zodiac circle.
const (
	// FullCircle is the number of degrees in the zodiac circle.
	FullCircle = 360.0

	// SignSpan is the angular width of a single sign.
	SignSpan = 30.0

	// SignCount is the number of zodiac signs.
	SignCount = 12
)

// Sign identifies one of the twelve zodiac signs, Aries through Pisces.
type Sign int

// The twelve signs in zodiacal order.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// String returns the sign name, or "Unknown" for out-of-range values.
func (s Sign) String() string {
	if s < 0 || int(s) >= SignCount {
		return "Unknown"
	}
	return signNames[s]
}

// Valid reports whether the sign is one of the twelve defined values.
func (s Sign) Valid() bool {
	return s >= 0 && int(s) < SignCount
}

// Element is one of the four classical elements.
type Element int

// Elements in traditional order.
const (
	Fire Element = iota
	Earth
	Air
	Water
)

var elementNames = [...]string{"fire", "earth", "air", "water"}

// String returns the lowercase element name used in serialized reports.
func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "unknown"
	}
	return elementNames[e]
}

// Modality is one of the three sign modalities.
type Modality int

// Modalities in traditional order.
const (
	Cardinal Modality = iota
	Fixed
	Mutable
)

var modalityNames = [...]string{"cardinal", "fixed", "mutable"}

// String returns the lowercase modality name used in serialized reports.
func (m Modality) String() string {
	if m < 0 || int(m) >= len(modalityNames) {
		return "unknown"
	}
	return modalityNames[m]
}

// Polarity is the two-fold sign classification.
type Polarity int

// Polarities.
const (
	Masculine Polarity = iota
	Feminine
)

var polarityNames = [...]string{"masculine", "feminine"}

// String returns the lowercase polarity name used in serialized reports.
func (p Polarity) String() string {
	if p < 0 || int(p) >= len(polarityNames) {
		return "unknown"
	}
	return polarityNames[p]
}

// Normalize maps a raw longitude onto [0, 360). It rejects non-finite
// input instead of producing a garbage sign downstream.
func Normalize(raw float64) (float64, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNotFinite, raw)
	}
	deg := math.Mod(raw, FullCircle)
	if deg < 0 {
		deg += FullCircle
	}
	// Mod can return 360 for inputs like -1e-15 after the shift above.
	if deg >= FullCircle {
		deg -= FullCircle
	}
	return deg, nil
}

// SignOf returns the sign containing a normalized longitude and the
// degree offset within that sign [0, 30). The longitude must already be
// in [0, 360); use Normalize first for raw values.
func SignOf(deg float64) (Sign, float64) {
	idx := int(deg / SignSpan)
	if idx >= SignCount {
		idx = SignCount - 1
	}
	if idx < 0 {
		idx = 0
	}
	return Sign(idx), deg - float64(idx)*SignSpan
}

// Separation returns the shortest circular distance between two
// normalized longitudes. The result is always in [0, 180].
func Separation(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > FullCircle/2 {
		d = FullCircle - d
	}
	return d
}

// Fixed sign classification tables. These are astrological constants and
// are never overridden at runtime.
var (
	signElements = [SignCount]Element{
		Fire, Earth, Air, Water, // Aries..Cancer
		Fire, Earth, Air, Water, // Leo..Scorpio
		Fire, Earth, Air, Water, // Sagittarius..Pisces
	}

	signModalities = [SignCount]Modality{
		Cardinal, Fixed, Mutable, // Aries..Gemini
		Cardinal, Fixed, Mutable, // Cancer..Virgo
		Cardinal, Fixed, Mutable, // Libra..Sagittarius
		Cardinal, Fixed, Mutable, // Capricorn..Pisces
	}

	signPolarities = [SignCount]Polarity{
		Masculine, Feminine, Masculine, Feminine,
		Masculine, Feminine, Masculine, Feminine,
		Masculine, Feminine, Masculine, Feminine,
	}
)

// ElementOf returns the element of a sign.
func ElementOf(s Sign) Element { return signElements[s] }

// ModalityOf returns the modality of a sign.
func ModalityOf(s Sign) Modality { return signModalities[s] }

// PolarityOf returns the polarity of a sign.
func PolarityOf(s Sign) Polarity { return signPolarities[s] }

// Elements lists the four elements in canonical order.
func Elements() []Element { return []Element{Fire, Earth, Air, Water} }

// Modalities lists the three modalities in canonical order.
func Modalities() []Modality { return []Modality{Cardinal, Fixed, Mutable} }

// Polarities lists both polarities in canonical order.
func Polarities() []Polarity { return []Polarity{Masculine, Feminine} }
