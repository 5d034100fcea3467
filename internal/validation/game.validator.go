package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gamecatalog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	ErrTitleRequired    = "title is required"
	ErrGenreRequired    = "genre is required"
	ErrPlatformRequired = "platform is required"
	ErrRatingRange      = "rating must be between 0 and 10"
)

// GameValidator checks submitted game payloads. Now is read on every call so
// the release year ceiling follows the calendar.
type GameValidator struct {
	Now func() time.Time
}

func NewGameValidator() *GameValidator {
	return &GameValidator{Now: time.Now}
}

var defaultValidator = NewGameValidator()

// ValidateGame checks a decoded request body and returns every rule it breaks.
func ValidateGame(candidate map[string]any) []string {
	return defaultValidator.Validate(candidate)
}

// ParseGame validates candidate and, only when it is valid, converts it to the typed input.
func ParseGame(candidate map[string]any) (models.GameInput, []string) {
	return defaultValidator.Parse(candidate)
}

func MaxReleaseYear(now time.Time) int {
	return now.Year() + models.ReleaseYearLookahead
}

func ReleaseYearMessage(now time.Time) string {
	return fmt.Sprintf(
		"releaseYear must be a valid year between %d and %d",
		models.MinReleaseYear,
		MaxReleaseYear(now),
	)
}

func (v *GameValidator) Validate(candidate map[string]any) []string {
	problems := []string{}
	now := v.Now()

	if !hasText(candidate, "title") {
		problems = append(problems, ErrTitleRequired)
	}
	if !hasText(candidate, "genre") {
		problems = append(problems, ErrGenreRequired)
	}
	if !hasText(candidate, "platform") {
		problems = append(problems, ErrPlatformRequired)
	}

	if _, ok := releaseYear(candidate, now); !ok {
		problems = append(problems, ReleaseYearMessage(now))
	}

	if raw, present := candidate["rating"]; present && raw != nil {
		if _, ok := rating(raw); !ok {
			problems = append(problems, ErrRatingRange)
		}
	}

	return problems
}

func (v *GameValidator) Parse(candidate map[string]any) (models.GameInput, []string) {
	if problems := v.Validate(candidate); len(problems) > 0 {
		return models.GameInput{}, problems
	}

	year, _ := releaseYear(candidate, v.Now())
	input := models.GameInput{
		Title:       candidate["title"].(string),
		Genre:       candidate["genre"].(string),
		Platform:    candidate["platform"].(string),
		ReleaseYear: year,
	}

	if raw, present := candidate["rating"]; present && raw != nil {
		value, _ := rating(raw)
		input.Rating = &value
	}

	if raw, present := candidate["description"]; present && raw != nil {
		description := describe(raw)
		input.Description = &description
	}

	return input, nil
}

func hasText(candidate map[string]any, field string) bool {
	value, ok := candidate[field].(string)
	return ok && strings.TrimSpace(value) != ""
}

// describe keeps scalars as their text and stores objects and arrays as JSON.
func describe(raw any) string {
	if text, err := cast.ToStringE(raw); err == nil {
		return text
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprint(raw)
	}
	return string(encoded)
}

var errNotNumeric = errors.New("not a number")

// number accepts JSON numbers and numeric strings, surrounding whitespace
// included. Booleans and blank strings are not numbers.
func number(raw any) (float64, error) {
	switch value := raw.(type) {
	case bool:
		return 0, errNotNumeric
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, errNotNumeric
		}
		return cast.ToFloat64E(trimmed)
	}
	return cast.ToFloat64E(raw)
}

// releaseYear coerces the submitted year the way a loose client would: numeric
// strings count, while zero, null and non-numeric values are treated as absent.
func releaseYear(candidate map[string]any, now time.Time) (int, bool) {
	raw, present := candidate["releaseYear"]
	if !present || raw == nil {
		return 0, false
	}

	year, err := number(raw)
	if err != nil || year == 0 || math.IsNaN(year) || year != math.Trunc(year) {
		return 0, false
	}

	if year < models.MinReleaseYear || year > float64(MaxReleaseYear(now)) {
		return 0, false
	}

	return int(year), true
}

func rating(raw any) (decimal.Decimal, bool) {
	value, err := number(raw)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, false
	}

	if value < models.MinRating || value > models.MaxRating {
		return decimal.Decimal{}, false
	}

	return decimal.NewFromFloat(value), true
}
