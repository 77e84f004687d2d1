package main

import (
	ucli "github.com/urfave/cli/v2"

	"github.com/trezcool/masomo-meet/storage/database"
)

func (cli *commandLine) migrate(c *ucli.Context) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		_ = ucli.ShowCommandHelp(c, "migrate")
		return errHelp
	}
	return database.GooseRunFunc(args[0], cli.db, args[1:]...)
}
