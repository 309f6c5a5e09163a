package main

import (
	"os"

	"github.com/usersadmin/usersadmin/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
