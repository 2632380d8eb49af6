package address

import (
	"fmt"
	"regexp"
	"strings"

	"hrcore/internal/domain/apperr"
)

var postalPatterns = map[string]*regexp.Regexp{
	"USA": regexp.MustCompile(`^\d{5}(-\d{4})?$`),
	"IND": regexp.MustCompile(`^[1-9]\d{5}$`),
	"GBR": regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}$`),
	"CAN": regexp.MustCompile(`^[A-Z]\d[A-Z] ?\d[A-Z]\d$`),
	"AUS": regexp.MustCompile(`^\d{4}$`),
	"DEU": regexp.MustCompile(`^\d{5}$`),
	"FRA": regexp.MustCompile(`^\d{5}$`),
	"ESP": regexp.MustCompile(`^\d{5}$`),
	"ITA": regexp.MustCompile(`^\d{5}$`),
	"MEX": regexp.MustCompile(`^\d{5}$`),
	"NLD": regexp.MustCompile(`^\d{4} ?[A-Z]{2}$`),
}

// checkPostalCode validates a normalized postal code for countries that
// have a known format. Other countries accept anything, including blank.
func checkPostalCode(postal, country string) error {
	pattern, ok := postalPatterns[country]
	if !ok {
		return nil
	}
	if postal == "" {
		return apperr.Validation("postalCode", fmt.Sprintf("Postal code is required for %s addresses", country))
	}
	if !pattern.MatchString(postal) {
		return apperr.Validation("postalCode", fmt.Sprintf("Invalid postal code for %s", country))
	}
	return nil
}

func normalizePostal(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
