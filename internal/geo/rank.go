package geo

import (
	"math"
	"sort"
	"strings"

	"neogaming/internal/models"
)

// Result caps used by the storefront views.
const (
	CategoryLimit = 3
	SearchLimit   = 20
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// Medal returns the marker for podium ranks 1-3 and "" for everything else.
func Medal(rank int) string {
	if rank < 1 || rank > len(medals) {
		return ""
	}
	return medals[rank-1]
}

// Rank computes the distance from user to every place, sorts ascending and
// keeps at most limit results. A limit <= 0 keeps them all. Places with equal
// distance keep their input order.
func Rank(user Point, places []models.Place, limit int) []models.RankedPlace {
	ranked := make([]models.RankedPlace, 0, len(places))
	for _, p := range places {
		ranked = append(ranked, models.RankedPlace{
			Place:      p,
			DistanceKm: Distance(user, p.Coordinates),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Medal = Medal(i + 1)
	}
	return ranked
}

// WithinKm drops every place farther than maxKm from user.
func WithinKm(user Point, places []models.Place, maxKm float64) []models.Place {
	kept := places[:0:0]
	for _, p := range places {
		if Distance(user, p.Coordinates) <= maxKm {
			kept = append(kept, p)
		}
	}
	return kept
}

// Stars renders a 0-5 rating as repeated stars plus a half marker.
func Stars(rating float64) string {
	if rating <= 0 || math.IsNaN(rating) {
		return ""
	}
	rating = math.Min(rating, 5)
	whole := math.Floor(rating)
	s := strings.Repeat("⭐", int(whole))
	if rating-whole >= 0.5 {
		s += "½"
	}
	return s
}
