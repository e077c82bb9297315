package main

import (
	"envlogger-go/platform"
	"envlogger-go/services/dutycycle"
)

// Every wake enters here. On the board, Run ends in deep sleep and only
// comes back if Boot halted or sleep entry failed.
func main() {
	p, err := platform.Open()
	if err != nil {
		println("[main] platform:", err.Error())
		platform.Halt()
		return
	}
	rep := p.Cycle.Run()
	p.Report(rep)
	if rep.Final == dutycycle.Halted {
		p.Log.Error("halted")
	}
	platform.Halt()
}
