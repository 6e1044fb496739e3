package utils

import (
	"fmt"
	"time"
)

var (
	istLocation *time.Location
)

func init() {
	// Try to load the Kolkata tz database entry
	var err error
	istLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: UTC+5:30
		istLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// ISTLocation returns the fixed reference timezone. Every calendar-day
// boundary decision in the analytics engine uses this zone.
func ISTLocation() *time.Location {
	return istLocation
}

// ISTTimezoneName is the identifier reported alongside trend series.
const ISTTimezoneName = "Asia/Kolkata"

// GetCurrentISTDate returns today's date in IST
func GetCurrentISTDate() string {
	now := time.Now().In(istLocation)
	return now.Format("2006-01-02")
}

// GetCurrentISTTime returns the current wall-clock time in IST
func GetCurrentISTTime() string {
	now := time.Now().In(istLocation)
	return now.Format("15:04")
}

// GetTimezoneInfo returns a human-readable description of the reference zone
func GetTimezoneInfo() string {
	nowUTC := time.Now().UTC()
	nowIST := nowUTC.In(istLocation)

	_, offset := nowIST.Zone()
	offsetHours := offset / 3600
	offsetMinutes := (offset % 3600) / 60

	return fmt.Sprintf("🕐 Current time: %s IST (UTC+%d:%02d)\n   Server time: %s UTC",
		nowIST.Format("15:04"), offsetHours, offsetMinutes, nowUTC.Format("15:04"))
}
