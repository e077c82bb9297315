package ds3231

import "time"

func bcdToBin(b byte) uint8 { return (b>>4)*10 + (b & 0x0F) }

func binToBCD(v uint8) byte { return byte((v/10)<<4 | v%10) }

// decodeHour accepts both 12 h and 24 h register encodings.
func decodeHour(b byte) uint8 {
	if b&hour12Bit == 0 {
		return bcdToBin(b & 0x3F)
	}
	h := bcdToBin(b & 0x1F) // 1..12
	if h == 12 {
		h = 0
	}
	if b&hourPMBit != 0 {
		h += 12
	}
	return h
}

// decodeTime converts registers 0x00..0x06 into a UTC time. Years are
// 2000..2199 via the century bit.
func decodeTime(r []byte) (time.Time, error) {
	if len(r) < 7 {
		return time.Time{}, ErrInvalidTime
	}
	sec := bcdToBin(r[regSeconds] & 0x7F)
	mn := bcdToBin(r[regMinutes] & 0x7F)
	hour := decodeHour(r[regHours])
	date := bcdToBin(r[regDate] & 0x3F)
	month := bcdToBin(r[regMonth] & 0x1F)
	year := 2000 + int(bcdToBin(r[regYear]))
	if r[regMonth]&centuryBit != 0 {
		year += 100
	}
	if sec > 59 || mn > 59 || hour > 23 || date < 1 || date > 31 || month < 1 || month > 12 {
		return time.Time{}, ErrInvalidTime
	}
	t := time.Date(year, time.Month(month), int(date), int(hour), int(mn), int(sec), 0, time.UTC)
	// time.Date normalises 31 Feb into March; the RTC never should.
	if t.Day() != int(date) {
		return time.Time{}, ErrInvalidTime
	}
	return t, nil
}

// encodeTime writes t (UTC, 24 h mode) into registers 0x00..0x06.
func encodeTime(t time.Time, out []byte) error {
	t = t.UTC()
	y := t.Year()
	if y < 2000 || y > 2199 || len(out) < 7 {
		return ErrInvalidTime
	}
	out[regSeconds] = binToBCD(uint8(t.Second()))
	out[regMinutes] = binToBCD(uint8(t.Minute()))
	out[regHours] = binToBCD(uint8(t.Hour()))
	out[regDay] = byte(t.Weekday()) + 1
	out[regDate] = binToBCD(uint8(t.Day()))
	out[regMonth] = binToBCD(uint8(t.Month()))
	if y >= 2100 {
		out[regMonth] |= centuryBit
		y -= 100
	}
	out[regYear] = binToBCD(uint8(y - 2000))
	return nil
}

// decodeTemp converts the MSB/LSB pair into quarter degrees.
func decodeTemp(msb, lsb byte) int16 {
	return int16(uint16(msb)<<8|uint16(lsb)) >> 6
}
