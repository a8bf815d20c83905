package recent

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
)

// viewWindowMonths is the trailing window of log entries considered.
const viewWindowMonths = 3

// Reserved course ids the block never lists: 0 (no course) and 1 (the site
// course).
var reservedCourseIDs = []int{0, 1}

type (
	Repository interface {
		// RecentCourseViews returns the distinct courses userID viewed since
		// `since`, most recently viewed first, capped at limit. When
		// requireRole is set, only courses where the same user holds a
		// current role assignment qualify.
		RecentCourseViews(ctx context.Context, userID int, since time.Time, limit int, requireRole bool) ([]Course, error)
	}

	Service struct {
		repo   Repository
		prefs  preference.Repository
		access core.AccessChecker
		conf   *core.Config
	}
)

func NewService(repo Repository, prefs preference.Repository, access core.AccessChecker, conf *core.Config) *Service {
	return &Service{repo: repo, prefs: prefs, access: access, conf: conf}
}

// EffectiveLimit resolves the number of courses to show for userID: their
// own non-empty override if one exists, the global default otherwise;
// always clamped. Out-of-range values are corrected here, not rejected.
func (svc *Service) EffectiveLimit(ctx context.Context, userID int) (int, error) {
	limit := svc.conf.Block.DefaultLimit

	pref, err := svc.prefs.GetPreferenceByUserID(ctx, userID)
	switch err {
	case nil:
		if pref.Limit != 0 {
			limit = pref.Limit
		}
	case preference.ErrNotFound:
	default:
		return 0, errors.Wrap(err, "getting user preference")
	}
	return preference.ClampLimit(limit), nil
}

// RecentCourses computes the block entries for userID. blockCtx is the
// context the block renders in; the showall capability there lifts the
// role-membership policy for this viewer.
func (svc *Service) RecentCourses(ctx context.Context, userID int, blockCtx core.Context) ([]CourseLink, error) {
	limit, err := svc.EffectiveLimit(ctx, userID)
	if err != nil {
		return nil, err
	}

	requireRole := svc.conf.Block.MustHaveRole
	if requireRole {
		showAll, err := svc.access.HasCapability(ctx, userID, blockCtx, core.CapShowAll)
		if err != nil {
			return nil, errors.Wrap(err, "checking showall capability")
		}
		if showAll {
			requireRole = false
		}
	}

	since := time.Now().UTC().AddDate(0, -viewWindowMonths, 0)
	courses, err := svc.repo.RecentCourseViews(ctx, userID, since, limit, requireRole)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent course views")
	}

	links := make([]CourseLink, 0, len(courses))
	for _, course := range courses {
		courseCtx := core.CourseContext(course.ID)

		// Users may hold roles outside the course context; when the role
		// policy is off the view-participants capability decides inclusion
		// instead.
		if !requireRole {
			show, err := svc.access.HasCapability(ctx, userID, courseCtx, core.CapViewParticipants)
			if err != nil {
				return nil, errors.Wrap(err, "checking viewparticipants capability")
			}
			if !show {
				continue
			}
		}

		showHidden, err := svc.access.HasCapability(ctx, userID, courseCtx, core.CapViewHidden)
		if err != nil {
			return nil, errors.Wrap(err, "checking viewhiddencourses capability")
		}

		links = append(links, CourseLink{
			CourseID:  course.ID,
			FullName:  course.FullName,
			ShortName: course.ShortName,
			Visible:   course.Visible,
			Dimmed:    showHidden && !course.Visible,
		})
	}
	return links, nil
}

// IsReservedCourseID reports whether id may never appear in the block.
func IsReservedCourseID(id int) bool {
	for _, reserved := range reservedCourseIDs {
		if id == reserved {
			return true
		}
	}
	return false
}
