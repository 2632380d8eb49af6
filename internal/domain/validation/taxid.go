package validation

import (
	"regexp"
	"strings"

	"hrcore/internal/domain/checksum"
)

const FieldTaxID = "taxId"
const FieldTaxIDType = "taxIdType"

const (
	TaxIDSSN      = "SSN"
	TaxIDITIN     = "ITIN"
	TaxIDPAN      = "PAN"
	TaxIDAadhaar  = "AADHAAR"
	TaxIDNINumber = "NI_NUMBER"
	TaxIDSIN      = "SIN"
	TaxIDTFN      = "TFN"
	TaxIDSteuerID = "STEUER_ID"
	TaxIDRFC      = "RFC"
)

type TaxIDRule struct {
	Country string
	Type    string
	Label   string
	Pattern *regexp.Regexp
	Format  string
	// Normalize defaults to normalizeCode.
	Normalize    func(string) string
	Explain      func(string) string
	Check        func(string) bool
	CheckMessage string
}

func (r TaxIDRule) normalize(v string) string {
	if r.Normalize != nil {
		return r.Normalize(v)
	}
	return normalizeCode(v)
}

// The first rule of each country is its default tax id type.
var taxIDRules = map[string][]TaxIDRule{
	"USA": {
		{
			Country: "USA", Type: TaxIDSSN, Label: "SSN",
			Pattern: regexp.MustCompile(`^\d{9}$`), Format: "9 digits (AAA-GG-SSSS)",
			Check: checksum.SSN, CheckMessage: "area, group or serial number is never issued",
		},
		{
			Country: "USA", Type: TaxIDITIN, Label: "ITIN",
			Pattern: regexp.MustCompile(`^9\d{2}(5\d|6[0-5]|7\d|8[0-8]|9[0-24-9])\d{4}$`),
			Format:  "9 digits starting with 9 and a group of 50-65, 70-88, 90-92 or 94-99",
		},
	},
	"IND": {
		{
			Country: "IND", Type: TaxIDPAN, Label: "PAN",
			Pattern: regexp.MustCompile(`^[A-Z]{3}[ABCFGHLJPTK][A-Z]\d{4}[A-Z]$`), Format: "5 letters, 4 digits, 1 letter",
			Explain: explainPAN,
		},
		{
			Country: "IND", Type: TaxIDAadhaar, Label: "Aadhaar number",
			Pattern: regexp.MustCompile(`^[2-9]\d{11}$`), Format: "12 digits not starting with 0 or 1",
			Check: checksum.Aadhaar, CheckMessage: "Verhoeff check digit mismatch",
		},
	},
	"GBR": {
		{
			Country: "GBR", Type: TaxIDNINumber, Label: "National Insurance number",
			Pattern: regexp.MustCompile(`^[A-CEGHJ-PR-TW-Z][A-CEGHJ-NPR-TW-Z]\d{6}[A-D]$`), Format: "2 letters, 6 digits, A-D",
			Check: validNIPrefix, CheckMessage: "prefix is not allocated",
		},
	},
	"CAN": {
		{
			Country: "CAN", Type: TaxIDSIN, Label: "SIN",
			Pattern: regexp.MustCompile(`^\d{9}$`), Format: "9 digits",
			Check: checksum.SIN, CheckMessage: "checksum failed",
		},
	},
	"AUS": {
		{
			Country: "AUS", Type: TaxIDTFN, Label: "TFN",
			Pattern: regexp.MustCompile(`^\d{9}$`), Format: "9 digits",
			Check: checksum.TFN, CheckMessage: "checksum failed",
		},
	},
	"DEU": {
		{
			Country: "DEU", Type: TaxIDSteuerID, Label: "Steuer-ID",
			Pattern: regexp.MustCompile(`^[1-9]\d{10}$`), Format: "11 digits not starting with 0",
			Check: checksum.SteuerID, CheckMessage: "check digit mismatch",
		},
	},
	"MEX": {
		{
			Country: "MEX", Type: TaxIDRFC, Label: "RFC",
			Pattern: regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`), Format: "3-4 letters, 6-digit date, 3-character homoclave",
		},
	},
}

var genericTaxID = regexp.MustCompile(`^[A-Z0-9/]{4,32}$`)

// ValidateTaxID checks a tax identifier against the rule for its country
// and type. A blank idType selects the country's default type. Unknown
// countries only get a loose shape check.
func ValidateTaxID(value, countryCode, idType string) Outcome {
	if strings.TrimSpace(value) == "" {
		return Invalid(FieldTaxID, "Tax id is required")
	}
	rule, known, ok := taxIDRuleFor(countryCode, idType)
	if !known {
		if !genericTaxID.MatchString(normalizeCode(value)) {
			return Invalid(FieldTaxID, "Invalid tax id: must be 4-32 letters or digits")
		}
		return Valid()
	}
	if !ok {
		return Invalid(FieldTaxIDType, "Unsupported tax id type "+strings.ToUpper(idType)+" for "+normalizeCountry(countryCode))
	}

	v := rule.normalize(value)
	if !rule.Pattern.MatchString(v) {
		reason := "must be " + rule.Format
		if rule.Explain != nil {
			if r := rule.Explain(v); r != "" {
				reason = r
			}
		}
		return Invalid(FieldTaxID, "Invalid "+rule.Label+": "+reason)
	}
	if rule.Check != nil && !rule.Check(v) {
		return Invalid(FieldTaxID, "Invalid "+rule.Label+": "+rule.CheckMessage)
	}
	return Valid()
}

// TaxIDTypes lists the tax id types registered for a country, default
// first.
func TaxIDTypes(countryCode string) []string {
	rules := taxIDRules[normalizeCountry(countryCode)]
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Type)
	}
	return out
}

// NormalizeTaxID returns the canonical stored form of a tax id.
func NormalizeTaxID(value, countryCode, idType string) string {
	rule, _, ok := taxIDRuleFor(countryCode, idType)
	if !ok {
		return normalizeCode(value)
	}
	return rule.normalize(value)
}

func taxIDRuleFor(countryCode, idType string) (rule TaxIDRule, known, ok bool) {
	rules, known := taxIDRules[normalizeCountry(countryCode)]
	if !known || len(rules) == 0 {
		return TaxIDRule{}, false, false
	}
	idType = strings.ToUpper(strings.TrimSpace(idType))
	if idType == "" {
		return rules[0], true, true
	}
	for _, r := range rules {
		if r.Type == idType {
			return r, true, true
		}
	}
	return TaxIDRule{}, true, false
}

func explainPAN(v string) string {
	if len(v) != 10 {
		return "must be 10 characters"
	}
	for i := 0; i < 5; i++ {
		if !isLetter(v[i]) {
			return "first five characters must be letters"
		}
	}
	if !strings.ContainsRune("ABCFGHLJPTK", rune(v[3])) {
		return "fourth character must be a valid holder type"
	}
	for i := 5; i < 9; i++ {
		if !isDigit(v[i]) {
			return "characters six to nine must be digits"
		}
	}
	if !isLetter(v[9]) {
		return "last character must be a letter"
	}
	return ""
}

var unallocatedNIPrefixes = map[string]struct{}{
	"BG": {}, "GB": {}, "NK": {}, "KN": {}, "TN": {}, "NT": {}, "ZZ": {},
}

func validNIPrefix(v string) bool {
	_, blocked := unallocatedNIPrefixes[v[:2]]
	return !blocked
}
