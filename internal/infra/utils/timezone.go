package utils

import (
	"errors"
	"fmt"
	"time"
)

// LoadLocation resolves an IANA timezone name. Scheduled commands resolve
// "today" and "11am" in this location.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return nil, errors.New("timezone cannot be empty")
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return location, nil
}
