// Package conv holds allocation-light number formatting and parsing for MCU
// builds, where fmt and strconv cost flash and heap.
package conv

// AppendUint appends the base-10 representation of n.
func AppendUint(dst []byte, n uint64) []byte {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}

// AppendInt appends the base-10 representation of n. Negative numbers
// supported.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendPadded appends n zero-padded to at least width digits.
func AppendPadded(dst []byte, n uint64, width int) []byte {
	var buf [20]byte
	d := AppendUint(buf[:0], n)
	for i := len(d); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, d...)
}

// Itoa is the string form of AppendInt.
func Itoa(n int64) string { return string(AppendInt(nil, n)) }
