package validation

import (
	"fmt"
	"regexp"

	"hrcore/internal/domain/checksum"
)

const (
	FieldAccountNumber     = "accountNumber"
	FieldRoutingNumber     = "routingNumber"
	FieldIFSCCode          = "ifscCode"
	FieldSortCode          = "sortCode"
	FieldBSBCode           = "bsbCode"
	FieldTransitNumber     = "transitNumber"
	FieldInstitutionNumber = "institutionNumber"
	FieldCLABE             = "clabe"
	FieldSwiftCode         = "swiftCode"
	FieldIBAN              = "iban"
)

// BankDetails is the flat bag of optional, country-specific routing fields
// a bank account carries. Only the fields named by the country's routing
// rule are authoritative.
type BankDetails struct {
	CountryCode       string
	AccountNumber     string
	RoutingNumber     string
	IFSCCode          string
	SortCode          string
	BSBCode           string
	TransitNumber     string
	InstitutionNumber string
	CLABE             string
	SwiftCode         string
	IBAN              string
}

func (d BankDetails) value(field string) string {
	switch field {
	case FieldAccountNumber:
		return d.AccountNumber
	case FieldRoutingNumber:
		return d.RoutingNumber
	case FieldIFSCCode:
		return d.IFSCCode
	case FieldSortCode:
		return d.SortCode
	case FieldBSBCode:
		return d.BSBCode
	case FieldTransitNumber:
		return d.TransitNumber
	case FieldInstitutionNumber:
		return d.InstitutionNumber
	case FieldCLABE:
		return d.CLABE
	case FieldSwiftCode:
		return d.SwiftCode
	case FieldIBAN:
		return d.IBAN
	}
	return ""
}

// FieldRule describes the structure of one routing field. Values are
// normalized (upper-cased, spaces and dashes removed) before matching.
type FieldRule struct {
	Field   string
	Label   string
	Pattern *regexp.Regexp
	Format  string
	// Explain, when set, names the exact structural defect of a value that
	// failed Pattern.
	Explain func(string) string
}

func (f FieldRule) check(v string) Outcome {
	if f.Pattern.MatchString(v) {
		return Valid()
	}
	reason := "must be " + f.Format
	if f.Explain != nil {
		if r := f.Explain(v); r != "" {
			reason = r
		}
	}
	return Invalid(f.Field, fmt.Sprintf("Invalid %s: %s", f.Label, reason))
}

type RoutingRule struct {
	Country string
	Alpha2  string
	// Fields lists the authoritative routing fields; the first one is the
	// primary routing code and the one Checksum applies to.
	Fields     []FieldRule
	Checksum   func(string) bool
	AccountMin int
	AccountMax int
	IBANLength int
}

var (
	routingNumberField = FieldRule{
		Field: FieldRoutingNumber, Label: "routing number",
		Pattern: regexp.MustCompile(`^\d{9}$`), Format: "9 digits",
	}
	ifscField = FieldRule{
		Field: FieldIFSCCode, Label: "IFSC code",
		Pattern: regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`), Format: "4 letters, 0, then 6 letters or digits",
		Explain: explainIFSC,
	}
	sortCodeField = FieldRule{
		Field: FieldSortCode, Label: "sort code",
		Pattern: regexp.MustCompile(`^\d{6}$`), Format: "6 digits (NN-NN-NN)",
	}
	bsbField = FieldRule{
		Field: FieldBSBCode, Label: "BSB code",
		Pattern: regexp.MustCompile(`^\d{6}$`), Format: "6 digits (NNN-NNN)",
	}
	transitField = FieldRule{
		Field: FieldTransitNumber, Label: "transit number",
		Pattern: regexp.MustCompile(`^\d{5}$`), Format: "5 digits",
	}
	institutionField = FieldRule{
		Field: FieldInstitutionNumber, Label: "institution number",
		Pattern: regexp.MustCompile(`^\d{3}$`), Format: "3 digits",
	}
	clabeField = FieldRule{
		Field: FieldCLABE, Label: "CLABE",
		Pattern: regexp.MustCompile(`^\d{18}$`), Format: "18 digits",
	}
	ibanField = FieldRule{
		Field: FieldIBAN, Label: "IBAN",
		Pattern: ibanShape, Format: "2 letters, 2 check digits and up to 30 letters or digits",
	}
)

var routingRules = map[string]RoutingRule{
	"USA": {Country: "USA", Alpha2: "US", Fields: []FieldRule{routingNumberField}, Checksum: checksum.ABA, AccountMin: 4, AccountMax: 17},
	"IND": {Country: "IND", Alpha2: "IN", Fields: []FieldRule{ifscField}, AccountMin: 9, AccountMax: 18},
	"GBR": {Country: "GBR", Alpha2: "GB", Fields: []FieldRule{sortCodeField}, AccountMin: 8, AccountMax: 8},
	"AUS": {Country: "AUS", Alpha2: "AU", Fields: []FieldRule{bsbField}, AccountMin: 6, AccountMax: 10},
	"CAN": {Country: "CAN", Alpha2: "CA", Fields: []FieldRule{transitField, institutionField}, AccountMin: 7, AccountMax: 12},
	"MEX": {Country: "MEX", Alpha2: "MX", Fields: []FieldRule{clabeField}, Checksum: checksum.CLABE, AccountMin: 10, AccountMax: 11},
	"DEU": ibanRule("DEU", "DE", 22),
	"FRA": ibanRule("FRA", "FR", 27),
	"ESP": ibanRule("ESP", "ES", 24),
	"ITA": ibanRule("ITA", "IT", 27),
	"NLD": ibanRule("NLD", "NL", 18),
	"IRL": ibanRule("IRL", "IE", 22),
}

func ibanRule(country, alpha2 string, length int) RoutingRule {
	return RoutingRule{
		Country:    country,
		Alpha2:     alpha2,
		Fields:     []FieldRule{ibanField},
		Checksum:   checksum.IBAN,
		IBANLength: length,
	}
}

// RoutingRuleFor returns the routing rule registered for an ISO-3166
// alpha-3 country code.
func RoutingRuleFor(countryCode string) (RoutingRule, bool) {
	rule, ok := routingRules[normalizeCountry(countryCode)]
	return rule, ok
}

// RoutingCode returns the authoritative routing field and its value for
// the account's country. Countries without a rule fall back to IBAN, then
// SWIFT. Canada's two-part code is returned as "transit-institution".
func RoutingCode(d BankDetails) (string, string) {
	rule, ok := RoutingRuleFor(d.CountryCode)
	if !ok {
		if v := normalizeCode(d.IBAN); v != "" {
			return FieldIBAN, v
		}
		if v := normalizeCode(d.SwiftCode); v != "" {
			return FieldSwiftCode, v
		}
		return "", ""
	}
	primary := rule.Fields[0]
	value := normalizeCode(d.value(primary.Field))
	for _, extra := range rule.Fields[1:] {
		value += "-" + normalizeCode(d.value(extra.Field))
	}
	return primary.Field, value
}

func explainIFSC(v string) string {
	if len(v) != 11 {
		return "must be 11 characters"
	}
	for i := 0; i < 4; i++ {
		if !isLetter(v[i]) {
			return "first four characters must be letters"
		}
	}
	if v[4] != '0' {
		return "fifth character must be 0"
	}
	for i := 5; i < 11; i++ {
		if !isLetter(v[i]) && !isDigit(v[i]) {
			return "last six characters must be letters or digits"
		}
	}
	return ""
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
