package document

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	cnpjFirstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// IsValidCPF reports whether digits is a CPF with valid modulo-11 check digits.
// The input must already be stripped of punctuation; anything else returns false.
func IsValidCPF(digits string) bool {
	d, ok := toDigits(digits, cpfLength)
	if !ok {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += d[i] * (10 - i)
	}
	if (sum*10%11)%10 != d[9] {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += d[i] * (11 - i)
	}
	return (sum*10%11)%10 == d[10]
}

// IsValidCNPJ reports whether digits is a CNPJ with valid check digits.
func IsValidCNPJ(digits string) bool {
	d, ok := toDigits(digits, cnpjLength)
	if !ok {
		return false
	}

	if cnpjCheckDigit(d, cnpjFirstWeights[:]) != d[12] {
		return false
	}
	return cnpjCheckDigit(d, cnpjSecondWeights[:]) == d[13]
}

func cnpjCheckDigit(d []int, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += d[i] * w
	}
	digit := 11 - sum%11
	if digit >= 10 {
		return 0
	}
	return digit
}

// toDigits converts s into its numeric digits. It fails on the wrong length, on any byte
// outside '0'-'9', and on sequences made of a single repeated digit.
func toDigits(s string, length int) ([]int, bool) {
	if len(s) != length {
		return nil, false
	}

	d := make([]int, length)
	repeated := true
	for i := 0; i < length; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		d[i] = int(c - '0')
		if c != s[0] {
			repeated = false
		}
	}
	if repeated {
		return nil, false
	}
	return d, true
}

// normalize keeps only the ASCII digits of raw.
func normalize(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	return string(out)
}
