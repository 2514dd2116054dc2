package main

import (
	"github.com/cca-libraries/vault-migrate/cmd"
)

func main() {
	cmd.Execute()
}
