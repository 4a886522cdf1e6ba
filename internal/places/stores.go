package places

import (
	"neogaming/internal/geo"
	"neogaming/internal/models"
)

func around(dLat, dLng float64) models.Coordinates {
	return models.Coordinates{Lat: geo.FallbackLocation.Lat + dLat, Lng: geo.FallbackLocation.Lng + dLng}
}

// GameStores returns the fixed list of partner game stores. The slice is a
// fresh copy on every call.
func GameStores() []models.Place {
	return []models.Place{
		{
			ID: "1", Name: "GameStop Centro", Coordinates: around(0.01, 0.01),
			Address: "Av. 16 de Septiembre 123, Centro", Phone: "+52 656 123-4567",
			Hours: "Mon-Sat: 10:00 - 22:00", Rating: 4.5, Kind: "🎮",
			Specialties: []string{"Consoles", "New releases", "Accessories"},
		},
		{
			ID: "2", Name: "ElectroGamer Plaza", Coordinates: around(-0.015, 0.02),
			Address: "Blvd. Teófilo Borunda 456, Pronaf", Phone: "+52 656 234-5678",
			Hours: "Mon-Sun: 11:00 - 21:00", Rating: 4.2, Kind: "🎮",
			Specialties: []string{"PC Gaming", "Hardware", "Streaming"},
		},
		{
			ID: "3", Name: "Retro Gaming House", Coordinates: around(0.02, -0.01),
			Address: "Calle Mariscal 789, Mariano Matamoros", Phone: "+52 656 345-6789",
			Hours: "Tue-Sun: 12:00 - 20:00", Rating: 4.8, Kind: "🎮",
			Specialties: []string{"Retro games", "Classic consoles", "Collectibles"},
		},
		{
			ID: "4", Name: "TecnoJuegos Mall", Coordinates: around(-0.02, -0.015),
			Address: "Las Misiones Mall, Local 45", Phone: "+52 656 456-7890",
			Hours: "Mon-Sun: 10:00 - 22:00", Rating: 4.3, Kind: "🎮",
			Specialties: []string{"Current gen", "VR", "E-sports"},
		},
		{
			ID: "5", Name: "Cyber Games Café", Coordinates: around(0.008, 0.025),
			Address: "Av. Universidad 321, UACJ", Phone: "+52 656 567-8901",
			Hours: "24 hours", Rating: 4.1, Kind: "🎮",
			Specialties: []string{"Internet café", "Tournaments", "Gaming lounge"},
		},
	}
}

// NearbyStores ranks the partner stores around user.
func NearbyStores(user geo.Point, limit int) []models.RankedPlace {
	return geo.Rank(user, GameStores(), limit)
}
