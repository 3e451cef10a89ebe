package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/user"
	"github.com/trezcool/eventhub/storage/database"
	mongorepos "github.com/trezcool/eventhub/storage/database/mongodb"
	sqlxrepos "github.com/trezcool/eventhub/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	cli, closeDB, err := newCommandLine(conf)
	errAndDie(err)

	err = cli.run(os.Args)
	if cerr := closeDB(); cerr != nil {
		logger.Printf("closing database: %s\n", cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// newCommandLine wires the services against the configured persistent engine.
func newCommandLine(conf *core.Config) (*commandLine, func() error, error) {
	switch conf.Database.Engine {
	case "mongodb":
		db, err := mongorepos.Connect(context.Background(), conf)
		if err != nil {
			return nil, nil, err
		}
		cli := &commandLine{
			usrSvc:  user.NewService(mongorepos.NewUserRepository(db), conf),
			clubSvc: club.NewService(mongorepos.NewClubRepository(db)),
		}
		return cli, func() error { return db.Close(context.Background()) }, nil

	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		cli := &commandLine{
			usrSvc:  user.NewService(sqlxrepos.NewUserRepository(db), conf),
			clubSvc: club.NewService(sqlxrepos.NewClubRepository(db)),
			db:      db.DB,
		}
		return cli, db.Close, nil
	}

	return nil, nil, errors.Errorf("the admin CLI needs a persistent database engine, got %q", conf.Database.Engine)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
