// Command logtool runs the logger on the simulated board and checks log
// files pulled off a card.
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRoot(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
