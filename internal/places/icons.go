package places

var kindIcons = map[string]map[string]string{
	"amenity": {
		"restaurant": "🍽️",
		"cafe":       "☕",
		"hospital":   "🏥",
		"pharmacy":   "💊",
		"bank":       "🏦",
		"fuel":       "⛽",
		"cinema":     "🎬",
		"school":     "🏫",
		"university": "🎓",
		"bar":        "🍺",
		"fast_food":  "🍟",
		"hotel":      "🏨",
	},
	"shop": {
		"supermarket": "🛒",
		"mall":        "🏬",
		"clothes":     "👕",
		"electronics": "📱",
		"books":       "📚",
		"video_games": "🎮",
	},
	"leisure": {
		"park":           "🌳",
		"stadium":        "🏟️",
		"fitness_centre": "💪",
	},
	"tourism": {
		"hotel":      "🏨",
		"attraction": "🎯",
		"museum":     "🏛️",
	},
}

// DefaultIcon marks places of an unknown kind.
const DefaultIcon = "📍"

// KindIcon returns the display icon for an OSM class (key) and type (value).
func KindIcon(class, typ string) string {
	if icon, ok := kindIcons[class][typ]; ok {
		return icon
	}
	return DefaultIcon
}
