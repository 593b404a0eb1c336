package main

import (
	"os"

	"github.com/solatis/promofilter/cmd/promofilter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
