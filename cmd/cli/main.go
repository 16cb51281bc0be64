// CLAS - Crash Log Auto Scanner
//
// CLAS is a batch crash log analysis tool for Bethesda games running the
// Buffout 4 crash generator. Point it at a folder of crash logs and it
// writes an AUTOSCAN report next to each one, naming suspect crash
// patterns, problematic mods and misconfigured crash generator settings.
package main

import (
	"os"

	"github.com/evildarkarchon/Buffout4-CLAS/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
