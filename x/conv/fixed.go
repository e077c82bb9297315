package conv

const maxInt64 = 1<<63 - 1

var pow10 = [...]int64{1, 10, 100, 1000, 10000}

// AppendFixed appends v scaled down by 10^decimals with exactly decimals
// fractional digits: (2150, 2) => "21.50", (-25, 2) => "-0.25".
func AppendFixed(dst []byte, v int64, decimals int) []byte {
	if decimals <= 0 || decimals >= len(pow10) {
		return AppendInt(dst, v)
	}
	u := uint64(v)
	if v < 0 {
		dst = append(dst, '-')
		u = uint64(-v)
	}
	p := uint64(pow10[decimals])
	dst = AppendUint(dst, u/p)
	dst = append(dst, '.')
	return AppendPadded(dst, u%p, decimals)
}

// ParseFixed is the inverse of AppendFixed. The fractional part must have
// exactly decimals digits.
func ParseFixed(s string, decimals int) (int64, bool) {
	if decimals <= 0 || decimals >= len(pow10) || s == "" {
		return 0, false
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	dot := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 || len(s)-dot-1 != decimals {
		return 0, false
	}
	whole, ok := ParseDigits(s[:dot])
	if !ok {
		return 0, false
	}
	frac, ok := ParseDigits(s[dot+1:])
	if !ok {
		return 0, false
	}
	// whole*10^decimals + frac must stay below MaxInt64.
	if whole >= uint64(maxInt64/pow10[decimals]) {
		return 0, false
	}
	v := int64(whole)*pow10[decimals] + int64(frac)
	if neg {
		v = -v
	}
	return v, true
}
