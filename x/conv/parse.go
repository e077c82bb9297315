package conv

// ParseDigits parses a non-empty run of ASCII digits (no sign, no spaces).
// At most 18 digits so the result cannot overflow int64.
func ParseDigits(s string) (uint64, bool) {
	if len(s) == 0 || len(s) > 18 {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	return n, true
}
