// Package storage wires the repositories of the configured backend.
package storage

import (
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database"
	inmemdb "github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database/inmem"
	sqlxrepos "github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database/sqlx"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/storage/docstore"
)

type Repositories struct {
	Users       user.Repository
	Activities  challenge.Repository
	Enrollments curriculum.Repository
	Hackathons  hackathon.Repository
	Plans       planner.Store

	closers []func() error
}

// Open returns the sql + docstore repositories for the live backend and the in-memory ones for the
// mock backend. sqlite databases are migrated on open.
func Open(conf *core.Config) (*Repositories, error) {
	if conf.Backend == core.BackendMock {
		mem := inmemdb.Open()
		return &Repositories{
			Users:       inmemdb.NewUserRepository(mem),
			Activities:  inmemdb.NewActivityRepository(mem),
			Enrollments: inmemdb.NewEnrollmentRepository(mem),
			Hackathons:  inmemdb.NewHackathonRepository(mem),
			Plans:       inmemdb.NewPlannerStore(mem),
		}, nil
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if conf.Database.Engine == database.EngineSQLite {
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "migrating sqlite database")
		}
	}
	docs, err := docstore.Open(conf.Database.DocStorePath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Users:       sqlxrepos.NewUserRepository(db),
		Activities:  sqlxrepos.NewActivityRepository(db),
		Enrollments: sqlxrepos.NewEnrollmentRepository(db),
		Hackathons:  sqlxrepos.NewHackathonRepository(db),
		Plans:       docs,
		closers:     []func() error{docs.Close, db.Close},
	}, nil
}

func (r *Repositories) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
