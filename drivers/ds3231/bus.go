package ds3231

// Single-byte and burst register access. The DS3231 auto-increments the
// register pointer and wraps after 0x12.

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.i2c.Tx(d.addr, d.w[:2], nil)
}

func (d *Device) readBurst(reg byte, n int) ([]byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:n]); err != nil {
		return nil, err
	}
	return d.r[:n], nil
}

func (d *Device) writeBurst(reg byte, data []byte) error {
	d.w[0] = reg
	n := copy(d.w[1:], data)
	return d.i2c.Tx(d.addr, d.w[:1+n], nil)
}

// modifyReg is the read-modify-write helper. The device register ends up
// either fully old (any failure) or fully new.
func (d *Device) modifyReg(reg, set, clear byte) error {
	cur, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, (cur|set)&^clear)
}
