package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Post field limits, counted in characters.
const (
	TitleMaxLength = 40
	BodyMaxLength  = 2000
)

// ValidatePost checks title and body before a create or update.
func ValidatePost(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return fmt.Errorf("title must not exceed %d characters", TitleMaxLength)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("body is required")
	}
	if utf8.RuneCountInString(body) > BodyMaxLength {
		return fmt.Errorf("body must not exceed %d characters", BodyMaxLength)
	}
	return nil
}
