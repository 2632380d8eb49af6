// Package checksum holds the arithmetic self-consistency checks embedded in
// bank routing codes and government identifiers. Every function is pure:
// callers normalize input first and get a plain valid/invalid answer back.
package checksum

import "strings"

var abaWeights = [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}

// ABA validates a US ABA routing transit number.
func ABA(s string) bool {
	if len(s) != 9 || !Digits(s) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * abaWeights[i]
	}
	return sum%10 == 0
}

// IBAN runs the ISO 7064 MOD-97-10 check over an IBAN. The remainder is
// folded digit by digit, which is equivalent to reducing the full integer.
func IBAN(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(s) < 5 {
		return false
	}
	rearranged := s[4:] + s[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		default:
			return false
		}
	}
	return rem == 1
}

// SIN validates a Canadian social insurance number with the Luhn variant:
// digits at odd positions are doubled, folded back below ten, then summed.
func SIN(s string) bool {
	if len(s) != 9 || !Digits(s) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := int(s[i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// SSN applies the US social security number rejection list. It is not a
// checksum: area 000, 666 and 9xx, group 00 and serial 0000 are never issued.
func SSN(s string) bool {
	if len(s) != 9 || !Digits(s) {
		return false
	}
	area, group, serial := s[:3], s[3:5], s[5:]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	return group != "00" && serial != "0000"
}

// Aadhaar validates a 12-digit Indian Aadhaar number: the leading digit is
// never 0 or 1 and the last digit is a Verhoeff check digit.
func Aadhaar(s string) bool {
	if len(s) != 12 || !Digits(s) {
		return false
	}
	if s[0] == '0' || s[0] == '1' {
		return false
	}
	return Verhoeff(s)
}

var verhoeffD = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

var verhoeffP = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// Verhoeff reports whether the trailing digit of s is a correct Verhoeff
// check digit for the digits before it.
func Verhoeff(s string) bool {
	if s == "" || !Digits(s) {
		return false
	}
	c := 0
	for i := 0; i < len(s); i++ {
		d := int(s[len(s)-1-i] - '0')
		c = verhoeffD[c][verhoeffP[i%8][d]]
	}
	return c == 0
}

// CLABE validates the control digit of an 18-digit Mexican CLABE.
func CLABE(s string) bool {
	if len(s) != 18 || !Digits(s) {
		return false
	}
	weights := [3]int{3, 7, 1}
	sum := 0
	for i := 0; i < 17; i++ {
		sum += (int(s[i]-'0') * weights[i%3]) % 10
	}
	control := (10 - sum%10) % 10
	return control == int(s[17]-'0')
}

var tfnWeights = [9]int{1, 4, 3, 7, 5, 8, 6, 9, 10}

// TFN validates a 9-digit Australian tax file number.
func TFN(s string) bool {
	if len(s) != 9 || !Digits(s) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * tfnWeights[i]
	}
	return sum%11 == 0
}

// SteuerID validates the ISO 7064 MOD 11,10 check digit of an 11-digit
// German tax identification number.
func SteuerID(s string) bool {
	if len(s) != 11 || !Digits(s) || s[0] == '0' {
		return false
	}
	product := 10
	for i := 0; i < 10; i++ {
		sum := (int(s[i]-'0') + product) % 10
		if sum == 0 {
			sum = 10
		}
		product = (sum * 2) % 11
	}
	check := 11 - product
	if check == 10 {
		check = 0
	}
	return check == int(s[10]-'0')
}

// Digits reports whether s is non-empty and made only of ASCII digits.
func Digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
