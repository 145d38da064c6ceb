package types

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is one hit from the keyword place search.
type Place struct {
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Rating           float64     `json:"rating"`
	UserRatingsTotal int         `json:"userRatingsTotal"`
	Location         Coordinates `json:"location"`
	PlaceID          string      `json:"placeId"`
	Types            []string    `json:"types"`
	OpenNow          *bool       `json:"openNow,omitempty"`
}

// SearchInfo echoes the resolved location back to the caller.
type SearchInfo struct {
	Location    string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
	Keyword     string      `json:"keyword"`
}

// PlaceSearchResponse is the searchPlaces reply.
type PlaceSearchResponse struct {
	Success    bool        `json:"success"`
	Places     []Place     `json:"places,omitempty"`
	SearchInfo *SearchInfo `json:"searchInfo,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Shop is a related facility around an event location.
type Shop struct {
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Rating   *float64    `json:"rating"`
	PlaceID  string      `json:"place_id"`
	Location Coordinates `json:"location"`
	Category string      `json:"category"`
	Website  *string     `json:"website"`
	Phone    *string     `json:"phone"`
}

// ShopSearchResponse is the searchRelatedShops reply.
type ShopSearchResponse struct {
	Shops []Shop  `json:"shops"`
	Error *string `json:"error,omitempty"`
}
