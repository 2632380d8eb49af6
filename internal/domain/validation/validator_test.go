package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcore/internal/domain/apperr"
)

func TestValidateBankAccount(t *testing.T) {
	tests := []struct {
		name    string
		details BankDetails
		field   string
		message string
	}{
		{
			name:    "usa valid",
			details: BankDetails{CountryCode: "USA", RoutingNumber: "021000021", AccountNumber: "123456789"},
		},
		{
			name:    "usa lower-case country",
			details: BankDetails{CountryCode: "usa", RoutingNumber: "021000021", AccountNumber: "123456789"},
		},
		{
			name:    "usa checksum failure",
			details: BankDetails{CountryCode: "USA", RoutingNumber: "021000022", AccountNumber: "123456789"},
			field:   FieldRoutingNumber,
			message: "Invalid routing number: checksum failed",
		},
		{
			name:    "usa dispatch ignores other routing fields",
			details: BankDetails{CountryCode: "USA", IFSCCode: "HDFC0001234", AccountNumber: "123456789"},
			field:   FieldRoutingNumber,
			message: "Routing number is required for USA bank accounts",
		},
		{
			name:    "usa account too short",
			details: BankDetails{CountryCode: "USA", RoutingNumber: "021000021", AccountNumber: "123"},
			field:   FieldAccountNumber,
			message: "Invalid account number: must be 4-17 digits for USA",
		},
		{
			name:    "india valid",
			details: BankDetails{CountryCode: "IND", IFSCCode: "hdfc0001234", AccountNumber: "123456789012"},
		},
		{
			name:    "india fifth character",
			details: BankDetails{CountryCode: "IND", IFSCCode: "HDFC1001234", AccountNumber: "123456789012"},
			field:   FieldIFSCCode,
			message: "Invalid IFSC code: fifth character must be 0",
		},
		{
			name:    "uk valid with dashes",
			details: BankDetails{CountryCode: "GBR", SortCode: "20-00-00", AccountNumber: "12345678"},
		},
		{
			name:    "uk account must be exactly 8",
			details: BankDetails{CountryCode: "GBR", SortCode: "200000", AccountNumber: "1234567"},
			field:   FieldAccountNumber,
			message: "Invalid account number: must be 8 digits for GBR",
		},
		{
			name:    "australia valid",
			details: BankDetails{CountryCode: "AUS", BSBCode: "062-000", AccountNumber: "123456"},
		},
		{
			name:    "canada valid",
			details: BankDetails{CountryCode: "CAN", TransitNumber: "12345", InstitutionNumber: "003", AccountNumber: "1234567"},
		},
		{
			name:    "canada missing institution",
			details: BankDetails{CountryCode: "CAN", TransitNumber: "12345", AccountNumber: "1234567"},
			field:   FieldInstitutionNumber,
			message: "Institution number is required for CAN bank accounts",
		},
		{
			name:    "mexico valid",
			details: BankDetails{CountryCode: "MEX", CLABE: "002010077777777771", AccountNumber: "0100777777"},
		},
		{
			name:    "mexico bad control digit",
			details: BankDetails{CountryCode: "MEX", CLABE: "002010077777777772", AccountNumber: "0100777777"},
			field:   FieldCLABE,
			message: "Invalid CLABE: checksum failed",
		},
		{
			name:    "germany valid iban",
			details: BankDetails{CountryCode: "DEU", IBAN: "DE89 3704 0044 0532 0130 00", AccountNumber: "0532013000"},
		},
		{
			name:    "germany foreign iban",
			details: BankDetails{CountryCode: "DEU", IBAN: "GB82WEST12345698765432", AccountNumber: "98765432"},
			field:   FieldIBAN,
			message: "Invalid IBAN: country prefix must be DE",
		},
		{
			name:    "usa swift country mismatch",
			details: BankDetails{CountryCode: "USA", RoutingNumber: "021000021", AccountNumber: "123456789", SwiftCode: "DEUTDEFF"},
			field:   FieldSwiftCode,
			message: "Invalid SWIFT code: country letters must be US",
		},
		{
			name:    "usa swift ok",
			details: BankDetails{CountryCode: "USA", RoutingNumber: "021000021", AccountNumber: "123456789", SwiftCode: "CHASUS33XXX"},
		},
		{
			name:    "unknown country without optional codes",
			details: BankDetails{CountryCode: "BRA", AccountNumber: "12345"},
		},
		{
			name:    "blank country generic",
			details: BankDetails{AccountNumber: "12345", IBAN: "GB82WEST12345698765432"},
		},
		{
			name:    "unknown country bad iban",
			details: BankDetails{CountryCode: "BRA", AccountNumber: "12345", IBAN: "GB82WEST12345698765433"},
			field:   FieldIBAN,
			message: "Invalid IBAN: checksum failed",
		},
		{
			name:    "unknown country bad swift",
			details: BankDetails{CountryCode: "BRA", AccountNumber: "12345", SwiftCode: "DEUT"},
			field:   FieldSwiftCode,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateBankAccount(tc.details)
			if tc.field == "" {
				assert.True(t, got.Valid, "unexpected failure: %+v", got)
				assert.NoError(t, got.Err())
				return
			}
			assert.False(t, got.Valid)
			assert.Equal(t, tc.field, got.Field)
			if tc.message != "" {
				assert.Equal(t, tc.message, got.Message)
			}
			err := got.Err()
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestRoutingCodeDispatchesByCountry(t *testing.T) {
	d := BankDetails{CountryCode: "CAN", TransitNumber: "12345", InstitutionNumber: "003", RoutingNumber: "021000021"}
	field, value := RoutingCode(d)
	assert.Equal(t, FieldTransitNumber, field)
	assert.Equal(t, "12345-003", value)

	d = BankDetails{CountryCode: "GBR", RoutingNumber: "021000021", SortCode: "20-00-00"}
	field, value = RoutingCode(d)
	assert.Equal(t, FieldSortCode, field)
	assert.Equal(t, "200000", value)

	field, value = RoutingCode(BankDetails{CountryCode: "BRA"})
	assert.Empty(t, field)
	assert.Empty(t, value)
}

func TestValidateTaxID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		country string
		idType  string
		field   string
		message string
	}{
		{name: "ssn dashed", value: "123-45-6789", country: "USA"},
		{name: "ssn area 666", value: "666-45-6789", country: "USA", field: FieldTaxID, message: "Invalid SSN: area, group or serial number is never issued"},
		{name: "ssn wrong length", value: "123-45-678", country: "USA", field: FieldTaxID, message: "Invalid SSN: must be 9 digits (AAA-GG-SSSS)"},
		{name: "itin", value: "912-70-1234", country: "USA", idType: "itin"},
		{name: "pan", value: "ABCPE1234F", country: "IND"},
		{name: "pan holder type", value: "ABCXE1234F", country: "IND", field: FieldTaxID, message: "Invalid PAN: fourth character must be a valid holder type"},
		{name: "aadhaar", value: "2341 2341 2346", country: "IND", idType: TaxIDAadhaar},
		{name: "aadhaar verhoeff", value: "234123412347", country: "IND", idType: TaxIDAadhaar, field: FieldTaxID, message: "Invalid Aadhaar number: Verhoeff check digit mismatch"},
		{name: "ni number", value: "AB 12 34 56 C", country: "GBR"},
		{name: "ni prefix", value: "BG123456C", country: "GBR", field: FieldTaxID, message: "Invalid National Insurance number: prefix is not allocated"},
		{name: "sin", value: "046 454 286", country: "CAN"},
		{name: "sin checksum", value: "046454287", country: "CAN", field: FieldTaxID},
		{name: "tfn", value: "123 456 782", country: "AUS"},
		{name: "steuer id", value: "86095742719", country: "DEU"},
		{name: "rfc", value: "GODE561231GR8", country: "MEX"},
		{name: "unsupported type", value: "ABCPE1234F", country: "USA", idType: "PAN", field: FieldTaxIDType},
		{name: "unknown country", value: "12345678909", country: "BRA"},
		{name: "unknown country junk", value: "1.2", country: "BRA", field: FieldTaxID},
		{name: "blank", value: " ", country: "USA", field: FieldTaxID, message: "Tax id is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateTaxID(tc.value, tc.country, tc.idType)
			if tc.field == "" {
				assert.True(t, got.Valid, "unexpected failure: %+v", got)
				return
			}
			assert.False(t, got.Valid)
			assert.Equal(t, tc.field, got.Field)
			if tc.message != "" {
				assert.Equal(t, tc.message, got.Message)
			}
		})
	}
}

func TestTaxIDTypes(t *testing.T) {
	assert.Equal(t, []string{TaxIDPAN, TaxIDAadhaar}, TaxIDTypes("ind"))
	assert.Empty(t, TaxIDTypes("BRA"))
	assert.Equal(t, "123456789", NormalizeTaxID("123-45-6789", "USA", ""))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****5678", Mask("12345678"))
	assert.Equal(t, "******************5432", Mask("GB82WEST12345698765432"))
	assert.Equal(t, "***", Mask("123"))
	assert.Equal(t, "****", Mask("1234"))
	assert.Equal(t, "", Mask("  "))
}
