package timezone

import (
	"strings"
	"time"
)

// BST is Bangladesh Standard Time (UTC+6), the home market of both suppliers.
var BST = time.FixedZone("BST", 6*60*60)

// Offsets in seconds for airports the suppliers commonly return. Supplier
// timestamps without an explicit offset are interpreted in the local zone of
// the airport they belong to.
var airportOffsets = map[string]int{
	// Bangladesh (UTC+6)
	"DAC": 6 * 3600, // Dhaka - Hazrat Shahjalal
	"CGP": 6 * 3600, // Chattogram - Shah Amanat
	"ZYL": 6 * 3600, // Sylhet - Osmani
	"CXB": 6 * 3600, // Cox's Bazar
	"JSR": 6 * 3600, // Jashore
	"SPD": 6 * 3600, // Saidpur
	"RJH": 6 * 3600, // Rajshahi - Shah Makhdum
	"BZL": 6 * 3600, // Barishal

	// Frequent international destinations
	"CCU": 5*3600 + 1800, // Kolkata
	"DEL": 5*3600 + 1800, // Delhi
	"KTM": 5*3600 + 2700, // Kathmandu
	"BKK": 7 * 3600,      // Bangkok - Suvarnabhumi
	"KUL": 8 * 3600,      // Kuala Lumpur
	"SIN": 8 * 3600,      // Singapore - Changi
	"DXB": 4 * 3600,      // Dubai
	"AUH": 4 * 3600,      // Abu Dhabi
	"DOH": 3 * 3600,      // Doha - Hamad
	"JED": 3 * 3600,      // Jeddah
	"RUH": 3 * 3600,      // Riyadh
	"MCT": 4 * 3600,      // Muscat
	"KWI": 3 * 3600,      // Kuwait
}

// LocationFor returns the time zone for an airport code, falling back to BST.
func LocationFor(code string) *time.Location {
	code = strings.ToUpper(code)
	if offset, ok := airportOffsets[code]; ok {
		if offset == 6*3600 {
			return BST
		}
		return time.FixedZone(code, offset)
	}
	return BST
}

// Parse reads a supplier timestamp. Offset-qualified forms win; bare local
// times are interpreted in the given airport's zone.
func Parse(value, airport string) (time.Time, error) {
	withOffset := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
	}
	for _, layout := range withOffset {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	loc := LocationFor(airport)
	local := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, layout := range local {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   value,
		Message: "unable to parse supplier timestamp",
	}
}
