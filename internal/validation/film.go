package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest film description accepted, in characters.
const MaxDescriptionLength = 200

// EarliestReleaseDate is the date of the first public film screening.
var EarliestReleaseDate = time.Date(1895, 12, 28, 0, 0, 0, 0, time.UTC)

func ValidateFilmName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("film name is required")
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateReleaseDate requires a date no earlier than EarliestReleaseDate.
func ValidateReleaseDate(released time.Time) error {
	if released.IsZero() {
		return fmt.Errorf("film release date is required")
	}
	if released.Before(EarliestReleaseDate) {
		return fmt.Errorf("release date cannot be earlier than %s", EarliestReleaseDate.Format("2006-01-02"))
	}
	return nil
}

func ValidateDuration(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("film duration must be positive")
	}
	return nil
}
