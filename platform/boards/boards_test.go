package boards

import (
	"testing"

	"envlogger-go/types"
)

func TestProfilesAreProgrammable(t *testing.T) {
	for _, n := range Names() {
		c, ok := ByName(n)
		if !ok {
			t.Fatalf("ByName(%q) missing", n)
		}
		if c.Board != n {
			t.Fatalf("profile %q names itself %q", n, c.Board)
		}
		r, ok := types.ParseAlarmRate(c.AlarmRate)
		if !ok || !r.Valid(c.AlarmID) {
			t.Fatalf("profile %q: %s cannot run %s", n, c.AlarmID, c.AlarmRate)
		}
		if !r.Expresses(c.WakePeriod) {
			t.Fatalf("profile %q: %s cannot wake every %v", n, c.AlarmRate, c.WakePeriod)
		}
		for _, p := range c.LeakagePins {
			if p == c.IntPin {
				t.Fatalf("profile %q isolates its INT pin %d", n, p)
			}
		}
		if c.FallbackTimer < c.WakePeriod {
			t.Fatalf("profile %q: fallback %v shorter than period %v", n, c.FallbackTimer, c.WakePeriod)
		}
	}
}

func TestByNameReturnsCopies(t *testing.T) {
	a, _ := ByName("pico_logger")
	a.LeakagePins[0] = 99
	b, _ := ByName("pico_logger")
	if b.LeakagePins[0] != 22 {
		t.Fatal("profile shared between callers")
	}
	if _, ok := ByName("toaster"); ok {
		t.Fatal("unknown board found")
	}
}

func TestSelectedDefault(t *testing.T) {
	if got := Selected().Board; got != selectedName {
		t.Fatalf("Selected().Board = %q, want %q", got, selectedName)
	}
}
