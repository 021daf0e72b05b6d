package main

import (
	"fmt"
	"os"

	"github.com/nconklindev/datecast/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	v := fmt.Sprintf("datecast %s\ncommit: %s\nbuilt: %s", version, commit, date)
	os.Exit(cli.Execute(v, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
