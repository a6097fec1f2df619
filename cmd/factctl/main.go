package main

import (
	"os"

	"github.com/Toutiscope/Facturation/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
