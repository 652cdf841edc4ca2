package members

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// AccessCode derives the front-desk code: last two digits of now's year
// followed by the last three digits of the phone number, zero-padded when
// fewer than three digits remain. Always five characters; never fails.
// Codes are not guaranteed unique across members.
func AccessCode(now time.Time, phone string) string {
	year := fmt.Sprintf("%02d", now.Year()%100)

	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	suffix := digits.String()
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}
	for len(suffix) < 3 {
		suffix = "0" + suffix
	}

	return year + suffix
}
