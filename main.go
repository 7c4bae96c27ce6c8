package main

import (
	"github.com/teslamate-tools/addrfix/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
