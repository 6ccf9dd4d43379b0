package models

import "strings"

var resultMarkers = []string{"won by", "match tied", "won the match", "match over"}

// StatusIndicatesResult reports whether a status line announces a finished match.
func StatusIndicatesResult(status string) bool {
	s := strings.ToLower(status)
	for _, marker := range resultMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// IsYetToBat reports whether score text carries the yet-to-bat marker.
func IsYetToBat(score string) bool {
	return strings.Contains(strings.ToLower(score), "yet to bat")
}
