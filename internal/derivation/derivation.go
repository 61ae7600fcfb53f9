// Package derivation holds the static lookup tables that enrich the plot
// form: marla area to plot dimensions, and area to a suggested room count.
// All functions are pure.
package derivation

import (
	"math"

	"github.com/aliraza167/construction-planner/api/internal/models"
)

// Supported area range in marla.
const (
	MinAreaValue = 3
	MaxAreaValue = 10
)

// Dimensions is a derived (width, length) pair in feet.
type Dimensions struct {
	Width  float64
	Length float64
}

// Plot widths are fixed at 25 ft across the supported range; lengths follow
// from the marla standard's square footage, rounded to the nearest half foot.
const plotWidthFt = 25.0

var govtLengths = map[int]float64{
	3:  27,
	4:  36,
	5:  45,
	6:  54,
	7:  63,
	8:  72,
	9:  81,
	10: 90,
}

var lahoreLengths = map[int]float64{
	3:  32.5,
	4:  43.5,
	5:  54.5,
	6:  65.5,
	7:  76,
	8:  87,
	9:  98,
	10: 109,
}

// DeriveDimensions looks up the tabulated plot dimensions for an integer
// area value in [3,10] under the given standard. The second return value is
// false for any other input; callers must then leave existing dimensions
// untouched rather than zeroing them.
func DeriveDimensions(standard models.MarlaStandard, areaValue float64) (Dimensions, bool) {
	if areaValue != math.Trunc(areaValue) {
		return Dimensions{}, false
	}
	area := int(areaValue)
	if area < MinAreaValue || area > MaxAreaValue {
		return Dimensions{}, false
	}

	var length float64
	var ok bool
	switch standard {
	case models.StandardGovt:
		length, ok = govtLengths[area]
	case models.StandardLahore:
		length, ok = lahoreLengths[area]
	}
	if !ok {
		return Dimensions{}, false
	}
	return Dimensions{Width: plotWidthFt, Length: length}, true
}

// DeriveRoomCount maps an area value to the suggested bedroom/bathroom count
// for the ground floor: 3 marla gets 1 of each, 4-7 get 2, 8-10 get 3.
// Values outside [3,10] are clamped to the nearest bound before lookup.
func DeriveRoomCount(areaValue float64) int {
	clamped := areaValue
	if clamped < MinAreaValue {
		clamped = MinAreaValue
	}
	if clamped > MaxAreaValue {
		clamped = MaxAreaValue
	}

	switch {
	case clamped < 4:
		return 1
	case clamped < 8:
		return 2
	default:
		return 3
	}
}
