// Package boards holds the compile-time board profiles. Firmware builds pick
// one with a board_* build tag; host tools look them up by name.
package boards

import (
	"sort"
	"time"

	"envlogger-go/types"
)

var profiles = map[string]func() types.Config{
	"default":     types.DefaultConfig,
	"pico_logger": picoLogger,
	"pico_bench":  picoBench,
}

// ByName returns a fresh copy of the named profile.
func ByName(name string) (types.Config, bool) {
	f, ok := profiles[name]
	if !ok {
		return types.Config{}, false
	}
	return f(), true
}

func Names() []string {
	out := make([]string, 0, len(profiles))
	for n := range profiles {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Selected is the profile this build was tagged for.
func Selected() types.Config {
	c, _ := ByName(selectedName)
	return c
}

// The field unit: DS3231 INT power-gates the Pico, card on spi1, console on
// uart0. GP22 and GP26 carry external pulls that leak in sleep.
func picoLogger() types.Config {
	c := types.DefaultConfig()
	c.Board = "pico_logger"
	c.Console = types.ConsolePlan{UART: "uart0", TX: 0, RX: 1, Baud: 115_200}
	c.LeakagePins = []int{22, 26}
	return c
}

// Bench unit on USB serial, always powered: INT on GP3 is the alarm wake.
// Alarm 1 every ten minutes, blank cards are formatted, a failed time read
// still logs the temperature.
func picoBench() types.Config {
	c := types.DefaultConfig()
	c.Board = "pico_bench"
	c.IntPin = 3
	c.WakePeriod = 10 * time.Minute
	c.FallbackTimer = 11 * time.Minute
	c.AlarmID = types.Alarm1
	c.AlarmRate = types.RateMatchMinutes.String()
	c.Volume.FormatIfMountFailed = true
	c.Policy.OnTimeReadFailure = types.FailurePlaceholder
	return c
}
