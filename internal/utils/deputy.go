package utils

// GetDeputyRank maps cumulative reward points to a display rank.
func GetDeputyRank(points int) (name string, icon string) {
	switch {
	case points >= 500:
		return "نائب الشعب", "🏆"
	case points >= 200:
		return "نائب فعال", "🥇"
	case points >= 50:
		return "نائب نشيط", "🥈"
	case points >= 10:
		return "نائب واعد", "🥉"
	default:
		return "نائب جديد", "⭐"
	}
}

// StarBar renders an average rating as a five-character star string.
func StarBar(avg float64) string {
	full := int(avg + 0.5)
	if full > 5 {
		full = 5
	}
	bar := ""
	for i := 0; i < 5; i++ {
		if i < full {
			bar += "★"
		} else {
			bar += "☆"
		}
	}
	return bar
}
