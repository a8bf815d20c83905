package dummydb

import (
	"sync"
	"time"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
	"github.com/trezcool/kumbuka/core/recent"
)

type (
	DB struct {
		preference *preferenceTable
		log        *logTable
		course     *courseTable
		role       *roleTable
		grant      *grantTable
	}

	preferenceTable struct {
		sync.RWMutex
		table map[string]*preference.Preference // keyed by row ID
	}

	// LogEntry mirrors the host's activity log rows that matter here.
	LogEntry struct {
		UserID       int
		CourseID     int
		Target       string
		Action       string
		ContextLevel core.ContextLevel
		TimeCreated  time.Time
	}

	logTable struct {
		sync.RWMutex
		entries []LogEntry
	}

	courseTable struct {
		sync.RWMutex
		table map[int]*recent.Course
	}

	roleKey struct{ userID, courseID int }

	roleTable struct {
		sync.RWMutex
		assignments map[roleKey]bool
	}

	grantKey struct {
		userID     int
		context    core.Context
		capability core.Capability
	}

	grantTable struct {
		sync.RWMutex
		grants map[grantKey]bool
	}
)

func Open() (*DB, error) {
	db := &DB{
		preference: &preferenceTable{table: make(map[string]*preference.Preference)},
		log:        &logTable{},
		course:     &courseTable{table: make(map[int]*recent.Course)},
		role:       &roleTable{assignments: make(map[roleKey]bool)},
		grant:      &grantTable{grants: make(map[grantKey]bool)},
	}
	return db, nil
}

// Host-table seeding helpers for tests.

func (db *DB) AddCourse(course recent.Course) {
	db.course.Lock()
	defer db.course.Unlock()
	db.course.table[course.ID] = &course
}

func (db *DB) AddLogEntry(entry LogEntry) {
	db.log.Lock()
	defer db.log.Unlock()
	db.log.entries = append(db.log.entries, entry)
}

// AddCourseView logs a "course viewed" entry the recent query matches.
func (db *DB) AddCourseView(userID, courseID int, at time.Time) {
	db.AddLogEntry(LogEntry{
		UserID:       userID,
		CourseID:     courseID,
		Target:       "course",
		Action:       "viewed",
		ContextLevel: core.ContextCourse,
		TimeCreated:  at,
	})
}

func (db *DB) AssignRole(userID, courseID int) {
	db.role.Lock()
	defer db.role.Unlock()
	db.role.assignments[roleKey{userID: userID, courseID: courseID}] = true
}

func (db *DB) Grant(userID int, c core.Context, cap core.Capability) {
	db.grant.Lock()
	defer db.grant.Unlock()
	db.grant.grants[grantKey{userID: userID, context: c, capability: cap}] = true
}
