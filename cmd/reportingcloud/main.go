package main

import (
	"os"

	"github.com/r9s-ai/reportingcloud/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
