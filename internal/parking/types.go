package parking

// City is a TDX city/county code supported by the off-street parking feeds.
type City string

const (
	Keelung        City = "Keelung"
	Taipei         City = "Taipei"
	NewTaipei      City = "NewTaipei"
	Taoyuan        City = "Taoyuan"
	Hsinchu        City = "Hsinchu"
	HsinchuCounty  City = "HsinchuCounty"
	Taichung       City = "Taichung"
	Tainan         City = "Tainan"
	Kaohsiung      City = "Kaohsiung"
	PingtungCounty City = "PingtungCounty"
	YilanCounty    City = "YilanCounty"
	Chiayi         City = "Chiayi"
)

// Cities lists every supported city in feed order.
var Cities = []City{
	Keelung, Taipei, NewTaipei, Taoyuan, Hsinchu, HsinchuCounty,
	Taichung, Tainan, Kaohsiung, PingtungCounty, YilanCounty, Chiayi,
}

// SpaceType is a vehicle category tracked separately in availability data.
type SpaceType string

const (
	Car     SpaceType = "Car"
	Scooter SpaceType = "Scooter"
	Heavy   SpaceType = "Heavy"
)

// spaceTypeCodes maps each vehicle category to its TDX space-type code.
// Exhaustive over the SpaceType constants; checked in init.
var spaceTypeCodes = map[SpaceType]int{
	Car:     1,
	Scooter: 2,
	Heavy:   5,
}

// Code returns the upstream space-type code for t.
func (t SpaceType) Code() int { return spaceTypeCodes[t] }

// Tier is a coarse availability bucket mapped to a minimum free-space count.
type Tier string

const (
	Any       Tier = "Any"
	Available Tier = "Available"
	Many      Tier = "Many"
	Few       Tier = "Few"
)

// tierThresholds maps each tier to the minimum available spaces a lot must
// report to be included. Exhaustive over the Tier constants; checked in init.
var tierThresholds = map[Tier]int{
	Any:       0,
	Available: 1,
	Many:      5,
	Few:       3,
}

// Threshold returns the minimum available spaces for tier t.
func (t Tier) Threshold() int { return tierThresholds[t] }

func init() {
	for _, t := range []SpaceType{Car, Scooter, Heavy} {
		if _, ok := spaceTypeCodes[t]; !ok {
			panic("parking: space type without code: " + string(t))
		}
	}
	for _, t := range []Tier{Any, Available, Many, Few} {
		if _, ok := tierThresholds[t]; !ok {
			panic("parking: tier without threshold: " + string(t))
		}
	}
}

// Coordinate is a geographic point (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Name carries the localized variants of a lot name.
type Name struct {
	Zh string `json:"zh"`
	En string `json:"en"`
}

// Lot is the static descriptive record of one parking facility.
// Immutable once loaded for a city within the process lifetime.
type Lot struct {
	City        City       `json:"city"`
	ID          string     `json:"id"`
	Name        Name       `json:"name"`
	Phone       string     `json:"phone"`
	Position    Coordinate `json:"position"`
	Address     string     `json:"address"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
}

// SpaceCount is the live count for one space type within a lot.
type SpaceCount struct {
	Type      int `json:"spaceType"`
	Total     int `json:"totalSpaces"`
	Available int `json:"availableSpaces"`
}

// LotAvailability is one lot's entry in a live availability snapshot.
type LotAvailability struct {
	ID     string       `json:"id"`
	Name   Name         `json:"name"`
	Spaces []SpaceCount `json:"spaces"`
}

// Space returns the count entry for the given space-type code, if present.
func (l LotAvailability) Space(code int) (SpaceCount, bool) {
	for _, s := range l.Spaces {
		if s.Type == code {
			return s, true
		}
	}
	return SpaceCount{}, false
}

// Result is one search hit: a lot's metadata joined with its live counts.
// DistanceKm is set only when the query carried a user coordinate; when the
// lot had no metadata the position is the zero coordinate and the distance is
// a placeholder, not a meaningful value.
type Result struct {
	ID              string     `json:"id"`
	Name            Name       `json:"name"`
	Address         string     `json:"address"`
	Phone           string     `json:"phone"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"imageUrl"`
	Position        Coordinate `json:"position"`
	TotalSpaces     int        `json:"totalSpaces"`
	AvailableSpaces int        `json:"availableSpaces"`
	DistanceKm      *float64   `json:"distanceKm,omitempty"`
}
