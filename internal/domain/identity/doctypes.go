package identity

import (
	"regexp"
	"strings"

	"hrcore/internal/domain/validation"
)

// DocumentType describes a country-scoped kind of identity document.
// Pattern applies to the number after upper-casing and removing spaces and
// dashes. Documents whose type names a TaxIDType are also checked by the
// tax id validator of their country.
type DocumentType struct {
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	CountryCode           string `json:"countryCode"`
	Category              string `json:"category"`
	Format                string `json:"format"`
	ExpiryRequired        bool   `json:"expiryRequired"`
	RequiredForOnboarding bool   `json:"requiredForOnboarding"`
	TaxIDType             string `json:"taxIdType,omitempty"`

	pattern *regexp.Regexp
}

func (t DocumentType) Matches(number string) bool {
	return t.pattern == nil || t.pattern.MatchString(number)
}

func docType(code, name, country, category, pattern, format string, expiry, required bool, taxIDType string) DocumentType {
	return DocumentType{
		Code:                  code,
		Name:                  name,
		CountryCode:           country,
		Category:              category,
		Format:                format,
		ExpiryRequired:        expiry,
		RequiredForOnboarding: required,
		TaxIDType:             taxIDType,
		pattern:               regexp.MustCompile(pattern),
	}
}

var catalog = []DocumentType{
	docType("USA_SSN", "Social Security card", "USA", CategoryTaxID, `^\d{9}$`, "9 digits", false, true, validation.TaxIDSSN),
	docType("USA_PASSPORT", "US passport", "USA", CategoryPassport, `^[A-Z0-9]{6,9}$`, "6-9 letters or digits", true, false, ""),
	docType("USA_DRIVERS_LICENSE", "Driver's license", "USA", CategoryDriving, `^[A-Z0-9]{4,20}$`, "4-20 letters or digits", true, false, ""),
	docType("USA_EAD", "Employment authorization document", "USA", CategoryWorkAuth, `^[A-Z]{3}\d{10}$`, "3 letters, 10 digits", true, false, ""),
	docType("IND_PAN", "PAN card", "IND", CategoryTaxID, `^[A-Z]{5}\d{4}[A-Z]$`, "5 letters, 4 digits, 1 letter", false, true, validation.TaxIDPAN),
	docType("IND_AADHAAR", "Aadhaar card", "IND", CategoryNationalID, `^\d{12}$`, "12 digits", false, true, validation.TaxIDAadhaar),
	docType("IND_PASSPORT", "Indian passport", "IND", CategoryPassport, `^[A-Z]\d{7}$`, "1 letter, 7 digits", true, false, ""),
	docType("GBR_NI_NUMBER", "National Insurance number", "GBR", CategoryTaxID, `^[A-Z]{2}\d{6}[A-D]$`, "2 letters, 6 digits, A-D", false, true, validation.TaxIDNINumber),
	docType("GBR_PASSPORT", "UK passport", "GBR", CategoryPassport, `^\d{9}$`, "9 digits", true, false, ""),
	docType("GBR_BRP", "Biometric residence permit", "GBR", CategoryWorkAuth, `^[A-Z]{2}[0-9X]\d{6}$`, "2 letters, 7 characters", true, false, ""),
	docType("CAN_SIN", "Social Insurance Number", "CAN", CategoryTaxID, `^\d{9}$`, "9 digits", false, true, validation.TaxIDSIN),
	docType("CAN_PASSPORT", "Canadian passport", "CAN", CategoryPassport, `^[A-Z]{2}\d{6}$`, "2 letters, 6 digits", true, false, ""),
	docType("AUS_TFN", "Tax file number", "AUS", CategoryTaxID, `^\d{9}$`, "9 digits", false, true, validation.TaxIDTFN),
	docType("AUS_PASSPORT", "Australian passport", "AUS", CategoryPassport, `^[A-Z]{1,2}\d{7}$`, "1-2 letters, 7 digits", true, false, ""),
	docType("DEU_STEUER_ID", "Steuerliche Identifikationsnummer", "DEU", CategoryTaxID, `^\d{11}$`, "11 digits", false, true, validation.TaxIDSteuerID),
	docType("DEU_PERSONALAUSWEIS", "Personalausweis", "DEU", CategoryNationalID, `^[CFGHJKLMNPRTVWXYZ0-9]{9}$`, "9 characters", true, false, ""),
	docType("MEX_RFC", "Registro Federal de Contribuyentes", "MEX", CategoryTaxID, `^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`, "3-4 letters, 6 digits, 3 characters", false, true, validation.TaxIDRFC),
	docType("MEX_CURP", "CURP", "MEX", CategoryNationalID, `^[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d$`, "18 characters", false, true, ""),
}

var byCode = func() map[string]DocumentType {
	m := make(map[string]DocumentType, len(catalog))
	for _, t := range catalog {
		m[t.Code] = t
	}
	return m
}()

func DocumentTypeByCode(code string) (DocumentType, bool) {
	t, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return t, ok
}

func DocumentTypesForCountry(countryCode string) []DocumentType {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	var out []DocumentType
	for _, t := range catalog {
		if t.CountryCode == country {
			out = append(out, t)
		}
	}
	return out
}

func RequiredDocumentsForOnboarding(countryCode string) []DocumentType {
	var out []DocumentType
	for _, t := range DocumentTypesForCountry(countryCode) {
		if t.RequiredForOnboarding {
			out = append(out, t)
		}
	}
	return out
}

func normalizeNumber(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	return strings.NewReplacer(" ", "", "-", "").Replace(v)
}
