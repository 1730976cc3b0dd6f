// Command contractlens uploads a contract to a ContractLens server and prints
// the analysis.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
