package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/recent"
)

type recentRepository struct {
	db *DB
}

var _ recent.Repository = (*recentRepository)(nil) // interface compliance check

func NewRecentRepository(db *DB) recent.Repository {
	return &recentRepository{db: db}
}

func (repo *recentRepository) RecentCourseViews(
	ctx context.Context,
	userID int,
	since time.Time,
	limit int,
	requireRole bool,
) ([]recent.Course, error) {
	repo.db.log.RLock()
	defer repo.db.log.RUnlock()
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()
	repo.db.role.RLock()
	defer repo.db.role.RUnlock()

	// group matching entries by course, keeping the latest view per course
	lastViewed := make(map[int]time.Time)
	for _, entry := range repo.db.log.entries {
		if entry.UserID != userID ||
			entry.Target != "course" ||
			entry.Action != "viewed" ||
			entry.ContextLevel != core.ContextCourse ||
			recent.IsReservedCourseID(entry.CourseID) ||
			entry.TimeCreated.Before(since) {
			continue
		}
		if requireRole && !repo.db.role.assignments[roleKey{userID: userID, courseID: entry.CourseID}] {
			continue
		}
		if _, ok := repo.db.course.table[entry.CourseID]; !ok { // inner join
			continue
		}
		if entry.TimeCreated.After(lastViewed[entry.CourseID]) {
			lastViewed[entry.CourseID] = entry.TimeCreated
		}
	}

	courseIDs := make([]int, 0, len(lastViewed))
	for id := range lastViewed {
		courseIDs = append(courseIDs, id)
	}
	sort.Slice(courseIDs, func(i, j int) bool {
		return lastViewed[courseIDs[i]].After(lastViewed[courseIDs[j]])
	})
	if len(courseIDs) > limit {
		courseIDs = courseIDs[:limit]
	}

	courses := make([]recent.Course, 0, len(courseIDs))
	for _, id := range courseIDs {
		courses = append(courses, *repo.db.course.table[id])
	}
	return courses, nil
}
