package tricipher

// LetterToDigit returns the 1-based alphabet position of an uppercase letter
// (A=1 ... Z=26). ok is false for anything outside A-Z.
func LetterToDigit(r rune) (digit int, ok bool) {
	if r < 'A' || r > 'Z' {
		return 0, false
	}
	return int(r-'A') + 1, true
}

// DigitToLetter maps a value back to a letter, reducing it into 1..26 first.
// 0 therefore maps to 'Z', the letter of its residue class.
func DigitToLetter(v int) byte {
	r := v % Modulus
	if r <= 0 {
		r += Modulus
	}
	return byte('A' + r - 1)
}

// LettersToDigits converts an A-Z string to its digit values.
// ok is false if the string contains anything else.
func LettersToDigits(s string) (digits []int, ok bool) {
	digits = make([]int, 0, len(s))
	for _, r := range s {
		d, ok := LetterToDigit(r)
		if !ok {
			return nil, false
		}
		digits = append(digits, d)
	}
	return digits, true
}

// DigitsToLetters is the inverse of LettersToDigits.
func DigitsToLetters(values []int) string {
	out := make([]byte, len(values))
	for i, v := range values {
		out[i] = DigitToLetter(v)
	}
	return string(out)
}
