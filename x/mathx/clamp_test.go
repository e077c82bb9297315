package mathx

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{12, 10, 0, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestBetween(t *testing.T) {
	if !Between(uint16(0x68), 0x08, 0x77) {
		t.Fatal("0x68 should be a usable address")
	}
	if Between(uint16(0x78), 0x08, 0x77) || Between(uint16(0x03), 0x77, 0x08) {
		t.Fatal("reserved addresses accepted")
	}
}
