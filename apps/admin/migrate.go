package main

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/storage/database"
)

var migrations = database.Migrations // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDatabase
	}

	version := func() (int64, error) {
		if len(args) < 2 {
			return 0, errors.Errorf("%s requires a version", args[0])
		}
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return 0, errors.Errorf("version must be a number, got %q", args[1])
		}
		return v, nil
	}

	switch args[0] {
	case "up":
		return migrations.Up(cli.db)
	case "up-by-one":
		return migrations.UpByOne(cli.db)
	case "up-to":
		v, err := version()
		if err != nil {
			return err
		}
		return migrations.UpTo(cli.db, v)
	case "down":
		return migrations.Down(cli.db)
	case "down-to":
		v, err := version()
		if err != nil {
			return err
		}
		return migrations.DownTo(cli.db, v)
	case "redo":
		return migrations.Redo(cli.db)
	}

	cli.printUsage()
	return errHelp
}
