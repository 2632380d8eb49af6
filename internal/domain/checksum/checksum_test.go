package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestABA(t *testing.T) {
	assert.True(t, ABA("021000021"))
	assert.True(t, ABA("011000015"))

	t.Run("adjacent transpositions fail", func(t *testing.T) {
		valid := "021000021"
		for i := 0; i < len(valid)-1; i++ {
			if valid[i] == valid[i+1] {
				continue
			}
			b := []byte(valid)
			b[i], b[i+1] = b[i+1], b[i]
			assert.False(t, ABA(string(b)), "transposition at %d: %s", i, b)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		assert.False(t, ABA("02100002"))
		assert.False(t, ABA("0210000210"))
		assert.False(t, ABA("02100002A"))
		assert.False(t, ABA(""))
	})
}

func TestIBAN(t *testing.T) {
	assert.True(t, IBAN("GB82WEST12345698765432"))
	assert.True(t, IBAN("GB82 WEST 1234 5698 7654 32"))
	assert.True(t, IBAN("gb82west12345698765432"))
	assert.True(t, IBAN("DE89370400440532013000"))
	assert.True(t, IBAN("FR1420041010050500013M02606"))

	t.Run("any single character change fails", func(t *testing.T) {
		valid := "GB82WEST12345698765432"
		for i := 0; i < len(valid); i++ {
			b := []byte(valid)
			c := b[i]
			if c >= '0' && c <= '9' {
				b[i] = '0' + (c-'0'+1)%10
			} else {
				b[i] = 'A' + (c-'A'+1)%26
			}
			assert.False(t, IBAN(string(b)), "altered position %d: %s", i, b)
		}
	})

	assert.False(t, IBAN("GB82"))
	assert.False(t, IBAN("GB82WEST1234569876543$"))
}

func TestSIN(t *testing.T) {
	assert.True(t, SIN("046454286"))
	assert.False(t, SIN("046454287"))
	assert.False(t, SIN("04645428"))
}

func TestSSN(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"issued number", "123456789", true},
		{"area 000", "000456789", false},
		{"area 666", "666456789", false},
		{"area 9xx", "912456789", false},
		{"group 00", "123006789", false},
		{"serial 0000", "123450000", false},
		{"too short", "12345678", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SSN(tc.value))
		})
	}
}

func TestAadhaar(t *testing.T) {
	assert.True(t, Aadhaar("234123412346"))
	assert.True(t, Aadhaar("499118665246"))
	assert.False(t, Aadhaar("234123412347"), "bad check digit")
	assert.False(t, Aadhaar("123412341234"), "leading 1")
	assert.False(t, Aadhaar("23412341234"), "too short")
}

func TestVerhoeff(t *testing.T) {
	assert.True(t, Verhoeff("2363"))
	assert.False(t, Verhoeff("2364"))
	assert.False(t, Verhoeff(""))
}

func TestCLABE(t *testing.T) {
	assert.True(t, CLABE("002010077777777771"))
	assert.True(t, CLABE("032180000118359719"))
	assert.False(t, CLABE("002010077777777772"))
	assert.False(t, CLABE("00201007777777777"))
}

func TestTFN(t *testing.T) {
	assert.True(t, TFN("123456782"))
	assert.True(t, TFN("876543210"))
	assert.False(t, TFN("123456789"))
}

func TestSteuerID(t *testing.T) {
	assert.True(t, SteuerID("86095742719"))
	assert.True(t, SteuerID("47036892816"))
	assert.False(t, SteuerID("86095742718"))
	assert.False(t, SteuerID("06095742719"))
}

func TestDeterministic(t *testing.T) {
	inputs := []string{"021000021", "GB82WEST12345698765432", "046454286", "234123412346"}
	for _, in := range inputs {
		first := []bool{ABA(in), IBAN(in), SIN(in), Aadhaar(in)}
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, []bool{ABA(in), IBAN(in), SIN(in), Aadhaar(in)})
		}
	}
}
