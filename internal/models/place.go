package models

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a point of interest: a game store or a place search result.
type Place struct {
	ID string `json:"id"`
	Coordinates
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone,omitempty"`
	Hours       string   `json:"hours,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Kind        string   `json:"kind,omitempty"` // display icon
}

// RankedPlace is a Place annotated with its distance from the user.
type RankedPlace struct {
	Place
	DistanceKm float64 `json:"distance_km"`
	Rank       int     `json:"rank"`
	Medal      string  `json:"medal,omitempty"`
}
