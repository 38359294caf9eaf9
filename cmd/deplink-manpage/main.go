package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/deplink/cmd/deplink"
	"github.com/arthur-debert/deplink/internal/version"
)

func main() {
	rootCmd := deplink.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DEPLINK",
		Section: "1",
		Source:  "deplink " + version.Version,
		Manual:  "deplink manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
