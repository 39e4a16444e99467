package inmemdb

import (
	"context"
	"sort"

	"github.com/mohae/deepcopy"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
)

type enrollmentRepository struct {
	db *courseTable
}

var _ curriculum.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) curriculum.Repository {
	return &enrollmentRepository{db: db.course}
}

func copyEnrollment(e curriculum.Enrollment) curriculum.Enrollment {
	return deepcopy.Copy(e).(curriculum.Enrollment)
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, e curriculum.Enrollment) (curriculum.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e = copyEnrollment(e)
	repo.db.table[e.ID] = &e
	return copyEnrollment(e), nil
}

func (repo *enrollmentRepository) GetEnrollment(_ context.Context, id string) (curriculum.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return copyEnrollment(*e), nil
	}
	return curriculum.Enrollment{}, curriculum.ErrEnrollmentNotFound
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter curriculum.EnrollmentFilter) ([]curriculum.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	userIDs := append([]string{}, filter.UserIDs...)
	sort.Strings(userIDs)

	es := make([]curriculum.Enrollment, 0)
	for _, e := range repo.db.table {
		switch {
		case len(userIDs) > 0 && !core.StringSliceContains(userIDs, e.UserID):
			continue
		case filter.Source != "" && e.Source != filter.Source:
			continue
		case filter.CourseSlug != "" && e.CourseSlug != filter.CourseSlug:
			continue
		}
		es = append(es, copyEnrollment(*e))
	}
	sort.Slice(es, func(i, j int) bool {
		if !es[i].CreatedAt.Equal(es[j].CreatedAt) {
			return es[i].CreatedAt.Before(es[j].CreatedAt)
		}
		return es[i].ID < es[j].ID
	})
	return es, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(_ context.Context, e curriculum.Enrollment) (curriculum.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[e.ID]; !ok {
		return curriculum.Enrollment{}, curriculum.ErrEnrollmentNotFound
	}
	e = copyEnrollment(e)
	repo.db.table[e.ID] = &e
	return copyEnrollment(e), nil
}

func (repo *enrollmentRepository) DeleteEnrollment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return curriculum.ErrEnrollmentNotFound
	}
	delete(repo.db.table, id)
	return nil
}
