// Package ds3231 constants: register addresses and bitfields of the DS3231
// extremely accurate I2C RTC with integrated TCXO.
package ds3231

const (
	// 7-bit I2C address (1101_000b).
	Address = 0x68

	// --- Timekeeping (BCD) ---
	regSeconds = 0x00
	regMinutes = 0x01
	regHours   = 0x02
	regDay     = 0x03 // 1..7
	regDate    = 0x04
	regMonth   = 0x05 // bit7 = century
	regYear    = 0x06

	// --- Alarm 1: seconds, minutes, hours, day/date (bit7 = A1Mx) ---
	regA1Seconds = 0x07
	regA1Minutes = 0x08
	regA1Hours   = 0x09
	regA1DayDate = 0x0A

	// --- Alarm 2: minutes, hours, day/date (bit7 = A2Mx) ---
	regA2Minutes = 0x0B
	regA2Hours   = 0x0C
	regA2DayDate = 0x0D

	// --- Control / status ---
	RegControl     = 0x0E // R/W
	RegStatus      = 0x0F // R/W, AxF and OSF clear-on-write-0
	regAgingOffset = 0x10
	regTempMSB     = 0x11 // R, signed integer part
	regTempLSB     = 0x12 // R, bits 7:6 = quarter degrees
)

// Control register (0x0E) bits.
const (
	CtrlA1IE  = 1 << 0
	CtrlA2IE  = 1 << 1
	CtrlINTCN = 1 << 2
	CtrlRS1   = 1 << 3
	CtrlRS2   = 1 << 4
	CtrlCONV  = 1 << 5
	CtrlBBSQW = 1 << 6 // battery-backed square wave / interrupt
	CtrlEOSC  = 1 << 7 // active-low oscillator enable
)

// Status register (0x0F) bits.
const (
	StatA1F     = 1 << 0
	StatA2F     = 1 << 1
	StatBSY     = 1 << 2
	StatEN32kHz = 1 << 3
	StatOSF     = 1 << 7
)

// Field helpers.
const (
	alarmMaskBit = 1 << 7 // AxMy in each alarm register
	dyDtBit      = 1 << 6 // alarm day-of-week select
	hour12Bit    = 1 << 6
	hourPMBit    = 1 << 5
	centuryBit   = 1 << 7
)
