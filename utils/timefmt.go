// File: utils/timefmt.go
package utils

import (
	"log"
	"sync"
	"time"

	"trimly/config"
)

var (
	shopLoc     *time.Location
	shopLocOnce sync.Once
)

// ShopLocation returns the canonical civil timezone all displayed times are
// rendered in. Loaded once from config; scheduling math itself compares
// absolute instants and never depends on the zone.
func ShopLocation() *time.Location {
	shopLocOnce.Do(func() {
		name := config.AppConfig.Timezone
		if name == "" {
			name = "Asia/Kolkata"
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Printf("timefmt: could not load timezone %q, falling back to IST offset: %v", name, err)
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		shopLoc = loc
	})
	return shopLoc
}

// Format12h renders an instant as a 12-hour wall clock time, e.g. "04:35 PM".
func Format12h(t time.Time) string {
	return t.In(ShopLocation()).Format("03:04 PM")
}

// Format24h renders an instant as a 24-hour wall clock time, e.g. "16:35".
func Format24h(t time.Time) string {
	return t.In(ShopLocation()).Format("15:04")
}

// FormatDate renders the civil calendar date of an instant, e.g. "2026-08-31".
func FormatDate(t time.Time) string {
	return t.In(ShopLocation()).Format("2006-01-02")
}

// SameCivilDay reports whether two instants fall on the same calendar day in
// the shop timezone.
func SameCivilDay(a, b time.Time) bool {
	la, lb := a.In(ShopLocation()), b.In(ShopLocation())
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}
