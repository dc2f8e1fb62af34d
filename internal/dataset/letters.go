package dataset

// ColumnIndex converts a spreadsheet column letter ("A", "Z", "AA") to a
// 0-based column index. The letter string is read as a base-26 number with
// 1-origin digits (A=1..Z=26), minus one. Returns false for empty strings
// or strings containing anything outside A-Z/a-z.
func ColumnIndex(letter string) (int, bool) {
	if letter == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(letter); i++ {
		c := letter[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return 0, false
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1, true
}

// ColumnLetter converts a 0-based column index back to its spreadsheet
// letter form (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	n := index + 1
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}
