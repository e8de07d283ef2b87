package cache

import "fmt"

func HolidaysKey(countryCode string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", countryCode, year)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
