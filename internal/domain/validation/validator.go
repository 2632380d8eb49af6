package validation

import (
	"fmt"
	"regexp"
	"strings"

	"hrcore/internal/domain/checksum"
)

var (
	ibanShape  = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{11,30}$`)
	swiftShape = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

// ValidateBankAccount checks the routing details of a bank account: the
// country's authoritative routing fields (structure, then checksum), the
// account-number length bounds, then any optional IBAN or SWIFT code.
// Countries without a rule only get the optional IBAN/SWIFT checks.
func ValidateBankAccount(d BankDetails) Outcome {
	rule, ok := RoutingRuleFor(d.CountryCode)
	if !ok {
		return validateOptional(d, RoutingRule{})
	}

	for _, f := range rule.Fields {
		v := normalizeCode(d.value(f.Field))
		if v == "" {
			return Invalid(f.Field, fmt.Sprintf("%s is required for %s bank accounts", upperFirst(f.Label), rule.Country))
		}
		if o := f.check(v); !o.Valid {
			return o
		}
	}

	primary := rule.Fields[0]
	primaryValue := normalizeCode(d.value(primary.Field))
	if rule.IBANLength > 0 {
		if o := checkIBANCountry(primaryValue, rule); !o.Valid {
			return o
		}
	}
	if rule.Checksum != nil && !rule.Checksum(primaryValue) {
		return Invalid(primary.Field, fmt.Sprintf("Invalid %s: checksum failed", primary.Label))
	}

	if o := checkAccountNumber(d.AccountNumber, rule); !o.Valid {
		return o
	}
	return validateOptional(d, rule)
}

func checkAccountNumber(raw string, rule RoutingRule) Outcome {
	if rule.AccountMin == 0 && rule.AccountMax == 0 {
		return Valid()
	}
	v := normalizeCode(raw)
	if checksum.Digits(v) && len(v) >= rule.AccountMin && len(v) <= rule.AccountMax {
		return Valid()
	}
	if rule.AccountMin == rule.AccountMax {
		return Invalid(FieldAccountNumber, fmt.Sprintf("Invalid account number: must be %d digits for %s", rule.AccountMin, rule.Country))
	}
	return Invalid(FieldAccountNumber, fmt.Sprintf("Invalid account number: must be %d-%d digits for %s", rule.AccountMin, rule.AccountMax, rule.Country))
}

func checkIBANCountry(v string, rule RoutingRule) Outcome {
	if !strings.HasPrefix(v, rule.Alpha2) {
		return Invalid(FieldIBAN, fmt.Sprintf("Invalid IBAN: country prefix must be %s", rule.Alpha2))
	}
	if len(v) != rule.IBANLength {
		return Invalid(FieldIBAN, fmt.Sprintf("Invalid IBAN: must be %d characters for %s", rule.IBANLength, rule.Country))
	}
	return Valid()
}

// validateOptional checks IBAN and SWIFT codes when present and not already
// covered by the country rule. A known country pins their country letters.
func validateOptional(d BankDetails, rule RoutingRule) Outcome {
	if v := normalizeCode(d.IBAN); v != "" && rule.IBANLength == 0 {
		if !ibanShape.MatchString(v) {
			return ibanField.check(v)
		}
		if rule.Alpha2 != "" && !strings.HasPrefix(v, rule.Alpha2) {
			return Invalid(FieldIBAN, fmt.Sprintf("Invalid IBAN: country prefix must be %s", rule.Alpha2))
		}
		if !checksum.IBAN(v) {
			return Invalid(FieldIBAN, "Invalid IBAN: checksum failed")
		}
	}
	if v := normalizeCode(d.SwiftCode); v != "" {
		if !swiftShape.MatchString(v) {
			return Invalid(FieldSwiftCode, "Invalid SWIFT code: must be 8 or 11 characters (bank, country, location, branch)")
		}
		if rule.Alpha2 != "" && v[4:6] != rule.Alpha2 {
			return Invalid(FieldSwiftCode, fmt.Sprintf("Invalid SWIFT code: country letters must be %s", rule.Alpha2))
		}
	}
	return Valid()
}

func normalizeCode(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	return strings.NewReplacer(" ", "", "-", "").Replace(v)
}

func normalizeCountry(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// NormalizeAccountNumber returns the comparable form of an account number
// used for duplicate detection.
func NormalizeAccountNumber(v string) string {
	return normalizeCode(v)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
