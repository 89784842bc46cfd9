package tdx

// Upstream payload shapes for the TDX off-street parking feeds. Fields the
// feed sometimes omits (telephone, description, imagery) unmarshal to their
// zero values and are defaulted downstream.

type NameType struct {
	Zh string `json:"Zh_tw"`
	En string `json:"En"`
}

type Position struct {
	Lat float64 `json:"PositionLat"`
	Lon float64 `json:"PositionLon"`
}

type CarPark struct {
	ID          string   `json:"CarParkID"`
	Name        NameType `json:"CarParkName"`
	Description string   `json:"Description"`
	Address     string   `json:"Address"`
	Telephone   string   `json:"Telephone"`
	Position    Position `json:"CarParkPosition"`
	ImageURL    string   `json:"ImageURL"`
}

type CarParksPayload struct {
	UpdateTime string    `json:"UpdateTime"`
	CarParks   []CarPark `json:"CarParks"`
}

type SpaceAvailability struct {
	SpaceType       int `json:"SpaceType"`
	NumberOfSpaces  int `json:"NumberOfSpaces"`
	AvailableSpaces int `json:"AvailableSpaces"`
}

type CarParkAvailability struct {
	CarParkID      string              `json:"CarParkID"`
	CarParkName    NameType            `json:"CarParkName"`
	Availabilities []SpaceAvailability `json:"Availabilities"`
}

type AvailabilityPayload struct {
	UpdateTime            string                `json:"UpdateTime"`
	ParkingAvailabilities []CarParkAvailability `json:"ParkingAvailabilities"`
}

type TokenPayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
