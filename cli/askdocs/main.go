package main

import (
	"os"

	askdocscmder "github.com/papergrid/askdocs/cmd/askdocs"
)

func main() {
	cmd := askdocscmder.NewAskdocsCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
