package timeutil

import (
	"log"
	"time"
)

// Business is the business-local time zone used for invoice dates. All
// invoices are stamped in a single configured zone regardless of the
// request locale.
var Business *time.Location

func init() {
	Business = time.FixedZone("AST", 3*60*60) // UTC+3 fallback
	if loc, err := time.LoadLocation("Asia/Baghdad"); err == nil {
		Business = loc
	}
}

// SetZone switches the business zone at startup from config.
func SetZone(name string) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[Time] Unknown timezone %q, keeping %s", name, Business)
		return
	}
	Business = loc
}

// Now returns the current time in the business zone.
func Now() time.Time {
	return time.Now().In(Business)
}

// ParseBusinessDate parses a "2006-01-02" date in the business zone.
func ParseBusinessDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, Business)
}
