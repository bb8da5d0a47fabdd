package main

import (
	"log"

	"github.com/spf13/pflag"

	"github.com/kingbosman/card-print/cmd"
)

func init() {
	flags := pflag.NewFlagSet("card-print", pflag.ExitOnError)
	pflag.CommandLine = flags
}

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
