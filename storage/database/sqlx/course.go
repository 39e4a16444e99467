package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
)

const enrollmentColumns = "id, user_id, source, course_slug, title, weeks, progress, created_at, updated_at"

type enrollmentRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Source     string    `db:"source"`
	CourseSlug string    `db:"course_slug"`
	Title      string    `db:"title"`
	Weeks      string    `db:"weeks"`    // JSON []curriculum.Week
	Progress   string    `db:"progress"` // JSON []curriculum.WeekProgress
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type enrollmentRepository struct {
	repo
}

var _ curriculum.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(exec core.DBExecutor) *enrollmentRepository {
	return &enrollmentRepository{repo{exec: exec}}
}

func (enrollmentRepository) toRow(e curriculum.Enrollment) (enrollmentRow, error) {
	weeks, err := toJSON(e.Content)
	if err != nil {
		return enrollmentRow{}, errors.Wrap(err, "encoding weeks")
	}
	prog, err := toJSON(e.Weeks)
	if err != nil {
		return enrollmentRow{}, errors.Wrap(err, "encoding progress")
	}
	return enrollmentRow{
		ID:         e.ID,
		UserID:     e.UserID,
		Source:     string(e.Source),
		CourseSlug: e.CourseSlug,
		Title:      e.Title,
		Weeks:      weeks,
		Progress:   prog,
		CreatedAt:  e.CreatedAt.UTC(),
		UpdatedAt:  e.UpdatedAt.UTC(),
	}, nil
}

func (enrollmentRepository) fromRow(row enrollmentRow) (curriculum.Enrollment, error) {
	e := curriculum.Enrollment{
		ID:         row.ID,
		UserID:     row.UserID,
		Source:     curriculum.Source(row.Source),
		CourseSlug: row.CourseSlug,
		Title:      row.Title,
		Content:    []curriculum.Week{},
		Weeks:      []curriculum.WeekProgress{},
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
	if err := fromJSON(row.Weeks, &e.Content); err != nil {
		return curriculum.Enrollment{}, errors.Wrapf(err, "decoding weeks of %s", row.ID)
	}
	if err := fromJSON(row.Progress, &e.Weeks); err != nil {
		return curriculum.Enrollment{}, errors.Wrapf(err, "decoding progress of %s", row.ID)
	}
	return e, nil
}

func (r enrollmentRepository) CreateEnrollment(ctx context.Context, e curriculum.Enrollment) (curriculum.Enrollment, error) {
	row, err := r.toRow(e)
	if err != nil {
		return curriculum.Enrollment{}, err
	}
	q := `INSERT INTO user_courses (` + enrollmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := execute(ctx, r.exec, q,
		row.ID, row.UserID, row.Source, row.CourseSlug, row.Title, row.Weeks, row.Progress, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return curriculum.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return r.fromRow(row)
}

func (r enrollmentRepository) GetEnrollment(ctx context.Context, id string) (curriculum.Enrollment, error) {
	var row enrollmentRow
	q := "SELECT " + enrollmentColumns + " FROM user_courses WHERE id = ?"
	if err := get(ctx, r.exec, &row, q, id); err != nil {
		return curriculum.Enrollment{}, trapNoRowsErr(err, curriculum.ErrEnrollmentNotFound, "finding enrollment")
	}
	return r.fromRow(row)
}

func (r enrollmentRepository) QueryEnrollments(ctx context.Context, filter curriculum.EnrollmentFilter) ([]curriculum.Enrollment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.UserIDs) > 0 {
		conds = append(conds, "user_id IN (?)")
		args = append(args, filter.UserIDs)
	}
	if filter.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.CourseSlug != "" {
		conds = append(conds, "course_slug = ?")
		args = append(args, filter.CourseSlug)
	}

	q := "SELECT " + enrollmentColumns + " FROM user_courses"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at, id"

	q, args, err := in(r.exec, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building enrollments query")
	}
	var rows []enrollmentRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}

	es := make([]curriculum.Enrollment, 0, len(rows))
	for _, row := range rows {
		e, err := r.fromRow(row)
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, nil
}

func (r enrollmentRepository) UpdateEnrollment(ctx context.Context, e curriculum.Enrollment) (curriculum.Enrollment, error) {
	row, err := r.toRow(e)
	if err != nil {
		return curriculum.Enrollment{}, err
	}
	q := "UPDATE user_courses SET title = ?, weeks = ?, progress = ?, updated_at = ? WHERE id = ?"
	n, err := execute(ctx, r.exec, q, row.Title, row.Weeks, row.Progress, row.UpdatedAt, row.ID)
	if err != nil {
		return curriculum.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if n == 0 {
		return curriculum.Enrollment{}, curriculum.ErrEnrollmentNotFound
	}
	return r.fromRow(row)
}

func (r enrollmentRepository) DeleteEnrollment(ctx context.Context, id string) error {
	n, err := execute(ctx, r.exec, "DELETE FROM user_courses WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n == 0 {
		return curriculum.ErrEnrollmentNotFound
	}
	return nil
}
