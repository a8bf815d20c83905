package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/recent"
)

// Note: these queries should utilize the host's composite log index
// (user_id, context_level, action, time_created) on activity_log.
const (
	recentViewsSQL = `
SELECT l.course_id, c.fullname, c.shortname, c.visible
FROM activity_log l
         JOIN course c ON c.id = l.course_id
WHERE l.user_id = $1
  AND l.context_level = $2
  AND l.target = 'course'
  AND l.action = 'viewed'
  AND l.course_id NOT IN (0, 1)
  AND l.time_created >= $3
GROUP BY l.course_id, c.fullname, c.shortname, c.visible
ORDER BY MAX(l.time_created) DESC
LIMIT $4`

	// The role assignment must belong to the user whose views are queried
	// (ra.user_id = l.user_id); a stranger's role in the course must not
	// satisfy the membership policy.
	recentViewsWithRoleSQL = `
SELECT l.course_id, c.fullname, c.shortname, c.visible
FROM activity_log l
         JOIN course c ON c.id = l.course_id
         JOIN role_assignment ra ON ra.course_id = l.course_id AND ra.user_id = l.user_id
WHERE l.user_id = $1
  AND l.context_level = $2
  AND l.target = 'course'
  AND l.action = 'viewed'
  AND l.course_id NOT IN (0, 1)
  AND l.time_created >= $3
GROUP BY l.course_id, c.fullname, c.shortname, c.visible
ORDER BY MAX(l.time_created) DESC
LIMIT $4`
)

type recentRepository struct {
	db *sqlx.DB
}

var _ recent.Repository = (*recentRepository)(nil) // interface compliance check

func NewRecentRepository(db *sql.DB, driverName string) *recentRepository {
	return &recentRepository{db: sqlx.NewDb(db, driverName)}
}

type courseRow struct {
	CourseID  int         `db:"course_id"`
	FullName  null.String `db:"fullname"`
	ShortName null.String `db:"shortname"`
	Visible   null.Bool   `db:"visible"`
}

func (repo recentRepository) RecentCourseViews(
	ctx context.Context,
	userID int,
	since time.Time,
	limit int,
	requireRole bool,
) ([]recent.Course, error) {
	query := recentViewsSQL
	if requireRole {
		query = recentViewsWithRoleSQL
	}

	var rows []courseRow
	err := repo.db.SelectContext(ctx, &rows, query, userID, core.ContextCourse, since, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent course views")
	}

	courses := make([]recent.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, recent.Course{
			ID:        row.CourseID,
			FullName:  row.FullName.String,
			ShortName: row.ShortName.String,
			Visible:   row.Visible.Bool,
		})
	}
	return courses, nil
}
