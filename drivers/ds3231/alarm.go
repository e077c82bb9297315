package ds3231

import "envlogger-go/types"

// Mask bits AxM1..AxM4 per rate, bit i = AxM(i+1). Alarm 2 has no seconds
// register, so its M1 position is unused.
func alarmMasks(id types.AlarmID, rate types.AlarmRate) (byte, bool) {
	if !rate.Valid(id) {
		return 0, false
	}
	if id == types.Alarm1 {
		switch rate {
		case types.RateEverySecond:
			return 0b1111, true
		case types.RateMatchSeconds:
			return 0b1110, true
		case types.RateMatchMinutes:
			return 0b1100, true
		case types.RateMatchHours:
			return 0b1000, true
		}
		return 0, false
	}
	switch rate {
	case types.RateEveryMinute:
		return 0b1110, true
	case types.RateMatchMinutes:
		return 0b1100, true
	case types.RateMatchHours:
		return 0b1000, true
	}
	return 0, false
}

func maskBit(m byte, i uint) byte {
	if m&(1<<i) != 0 {
		return alarmMaskBit
	}
	return 0
}

// SetAlarm programs the target time and repeat rule of one alarm. It does not
// touch the interrupt enables or the flags.
func (d *Device) SetAlarm(spec types.AlarmSpec) error {
	m, ok := alarmMasks(spec.ID, spec.Rate)
	if !ok || spec.Hour > 23 || spec.Minute > 59 || spec.Second > 59 {
		return ErrInvalidAlarm
	}
	var buf [4]byte
	sec := binToBCD(spec.Second) | maskBit(m, 0)
	mn := binToBCD(spec.Minute) | maskBit(m, 1)
	hr := binToBCD(spec.Hour) | maskBit(m, 2) // 24 h mode
	day := byte(1) | maskBit(m, 3)            // date 1, only reached if M4 clear
	if spec.ID == types.Alarm1 {
		buf[0], buf[1], buf[2], buf[3] = sec, mn, hr, day
		return d.writeBurst(regA1Seconds, buf[:4])
	}
	buf[0], buf[1], buf[2] = mn, hr, day
	return d.writeBurst(regA2Minutes, buf[:3])
}

// ClearAlarmFlags writes 0 to AxF for the selected alarms.
func (d *Device) ClearAlarmFlags(id types.AlarmID) error {
	if id&types.AlarmBoth == 0 {
		return ErrInvalidAlarm
	}
	return d.modifyReg(RegStatus, 0, byte(id&types.AlarmBoth))
}

// AlarmFlags returns the alarms whose flag is currently set.
func (d *Device) AlarmFlags() (types.AlarmID, error) {
	st, err := d.readReg(RegStatus)
	if err != nil {
		return 0, err
	}
	return types.AlarmID(st) & types.AlarmBoth, nil
}

// EnableAlarmInterrupt selects interrupt mode on INT/SQW and enables the
// selected alarms. Clear stale flags first or INT asserts at once.
func (d *Device) EnableAlarmInterrupt(id types.AlarmID) error {
	if id&types.AlarmBoth == 0 {
		return ErrInvalidAlarm
	}
	return d.modifyReg(RegControl, CtrlINTCN|byte(id&types.AlarmBoth), 0)
}

func (d *Device) DisableAlarmInterrupt(id types.AlarmID) error {
	if id&types.AlarmBoth == 0 {
		return ErrInvalidAlarm
	}
	return d.modifyReg(RegControl, 0, byte(id&types.AlarmBoth))
}
