package models

import "fmt"

// Requirement is a two-state toggle used for drawing/dining and garage.
type Requirement string

const (
	Required    Requirement = "Required"
	NotRequired Requirement = "Not Required"
)

// Maximum number of floors a configuration may hold.
const MaxFloors = 3

// FloorConfig describes one floor of the planned building.
// FloorNumber is 1-based with floor 1 being the ground floor. Bedrooms and
// Bathrooms are 0 while unset; kitchens and living rooms are fixed at 1 per
// floor. Garage is only meaningful on floor 1.
type FloorConfig struct {
	FloorNumber   int         `json:"floorNumber"`
	FloorName     string      `json:"floorName"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     int         `json:"bathrooms"`
	Kitchens      int         `json:"kitchens"`
	LivingRooms   int         `json:"livingRooms"`
	DrawingDining Requirement `json:"drawingDining"`
	Garage        Requirement `json:"garage"`
}

// NewFloorConfig returns a floor with default field values for the given
// 1-based floor number. Bedrooms and bathrooms start unset.
func NewFloorConfig(number int) FloorConfig {
	return FloorConfig{
		FloorNumber:   number,
		FloorName:     FloorName(number),
		Kitchens:      1,
		LivingRooms:   1,
		DrawingDining: Required,
		Garage:        Required,
	}
}

// FloorName maps a 1-based configuration floor number to its display label:
// 1 is the ground floor, 2 the 1st floor, and so on.
func FloorName(number int) string {
	switch number {
	case 1:
		return "Ground Floor"
	case 2:
		return "1st Floor"
	case 3:
		return "2nd Floor"
	case 4:
		return "3rd Floor"
	default:
		return fmt.Sprintf("%dth Floor", number)
	}
}

// APIFloorLabel maps the floor value returned by the estimation service to a
// display label. The service uses 0 for the ground floor and 1-based values
// for upper floors; this mapping is inherited from the upstream service and
// intentionally differs from the 1-based FloorName scheme.
func APIFloorLabel(floor int) string {
	switch floor {
	case 0:
		return "Ground Floor"
	case 1:
		return "1st Floor"
	case 2:
		return "2nd Floor"
	case 3:
		return "3rd Floor"
	default:
		return fmt.Sprintf("%dth Floor", floor)
	}
}
