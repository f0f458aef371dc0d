package model

// Duration combines an hours and minutes pair into decimal hours.
func Duration(hours, minutes float64) float64 {
	return hours + minutes/60
}

// SplitHours breaks decimal hours into whole hours and remaining minutes.
// Both parts are truncated, never rounded: 1.999h is 1h 59m.
func SplitHours(h float64) (hours, minutes int) {
	hours = int(h)
	minutes = int((h - float64(hours)) * 60)
	return hours, minutes
}
