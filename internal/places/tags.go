package places

import "strings"

// Tag is an OpenStreetMap key=value pair.
type Tag struct {
	Key   string
	Value string
}

func (t Tag) String() string { return t.Key + "=" + t.Value }

// keywordTags maps free-text keywords (Spanish and English) to the OSM tag
// searched through Overpass.
var keywordTags = map[string]Tag{
	"cafe":         {"amenity", "cafe"},
	"café":         {"amenity", "cafe"},
	"cafeteria":    {"amenity", "cafe"},
	"cafetería":    {"amenity", "cafe"},
	"coffee":       {"amenity", "cafe"},
	"restaurante":  {"amenity", "restaurant"},
	"restaurant":   {"amenity", "restaurant"},
	"comida":       {"amenity", "restaurant"},
	"food":         {"amenity", "restaurant"},
	"hamburguesas": {"amenity", "fast_food"},
	"burger":       {"amenity", "fast_food"},
	"hospital":     {"amenity", "hospital"},
	"farmacia":     {"amenity", "pharmacy"},
	"pharmacy":     {"amenity", "pharmacy"},
	"banco":        {"amenity", "bank"},
	"bank":         {"amenity", "bank"},
	"cajero":       {"amenity", "atm"},
	"atm":          {"amenity", "atm"},
	"gasolinera":   {"amenity", "fuel"},
	"fuel":         {"amenity", "fuel"},
	"cine":         {"amenity", "cinema"},
	"cinema":       {"amenity", "cinema"},
	"escuela":      {"amenity", "school"},
	"school":       {"amenity", "school"},
	"universidad":  {"amenity", "university"},
	"university":   {"amenity", "university"},
	"bar":          {"amenity", "bar"},
	"hotel":        {"tourism", "hotel"},
	"museo":        {"tourism", "museum"},
	"museum":       {"tourism", "museum"},
	"supermercado": {"shop", "supermarket"},
	"supermarket":  {"shop", "supermarket"},
	"mall":         {"shop", "mall"},
	"ropa":         {"shop", "clothes"},
	"clothes":      {"shop", "clothes"},
	"electronica":  {"shop", "electronics"},
	"electrónica":  {"shop", "electronics"},
	"electronics":  {"shop", "electronics"},
	"libreria":     {"shop", "books"},
	"librería":     {"shop", "books"},
	"books":        {"shop", "books"},
	"videojuegos":  {"shop", "video_games"},
	"juegos":       {"shop", "video_games"},
	"games":        {"shop", "video_games"},
	"gaming":       {"shop", "video_games"},
	"parque":       {"leisure", "park"},
	"park":         {"leisure", "park"},
	"estadio":      {"leisure", "stadium"},
	"stadium":      {"leisure", "stadium"},
	"gimnasio":     {"leisure", "fitness_centre"},
	"gym":          {"leisure", "fitness_centre"},
}

// MatchTag returns the tag for the first word of query found in the keyword
// table, reading left to right.
func MatchTag(query string) (Tag, bool) {
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,;:!?¿¡\"'()")
		if tag, ok := keywordTags[word]; ok {
			return tag, true
		}
	}
	return Tag{}, false
}
