package models

import "time"

// PublicHoliday is one entry from the external holiday feed. Held only in
// the process-wide cache, never persisted.
type PublicHoliday struct {
	Date      time.Time `json:"date"`
	LocalName string    `json:"local_name"`
	Name      string    `json:"name"`
}
