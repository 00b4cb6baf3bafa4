// Package main is the entry point for the librarium application.
package main

import (
	"github.com/librarium-app/librarium/cmd"
	"github.com/librarium-app/librarium/config"
	"github.com/librarium-app/librarium/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
