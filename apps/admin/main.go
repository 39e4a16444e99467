package main

import (
	"log"
	"os"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/schoolday"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database"
	sqlxrepos "github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	cal, err := schoolday.NewCalendar(conf.Schedule.Epoch, conf.Schedule.Location)
	errAndDie(err)
	pools, err := challenge.LoadPoolsFile(conf.Schedule.PoolsFile)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:           db,
		usrRepo:      sqlxrepos.NewUserRepository(db),
		challengeSvc: challenge.NewService(sqlxrepos.NewActivityRepository(db), cal, pools),
		out:          os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
