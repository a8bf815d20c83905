package core

import "context"

// ContextLevel mirrors the host platform's permission scoping levels.
type ContextLevel int

const (
	ContextSystem ContextLevel = 10
	ContextUser   ContextLevel = 30
	ContextCourse ContextLevel = 50
	ContextBlock  ContextLevel = 80
)

// Context is a host platform scoping unit for permissions and privacy:
// a level plus the id of the instance it wraps (a user id for ContextUser,
// a course id for ContextCourse, ...).
type Context struct {
	Level      ContextLevel `json:"level"`
	InstanceID int          `json:"instance_id"`
}

func SystemContext() Context              { return Context{Level: ContextSystem} }
func UserContext(userID int) Context      { return Context{Level: ContextUser, InstanceID: userID} }
func CourseContext(courseID int) Context  { return Context{Level: ContextCourse, InstanceID: courseID} }
func BlockContext(instanceID int) Context { return Context{Level: ContextBlock, InstanceID: instanceID} }

// IsUserContext reports whether this is the personal context of userID.
func (c Context) IsUserContext(userID int) bool {
	return c.Level == ContextUser && c.InstanceID == userID
}

// Capability is a named permission checked against a user and a Context.
// The names match the host platform's capability registry.
type Capability string

const (
	CapChangeLimit      Capability = "block/course_recent:changelimit"
	CapShowAll          Capability = "block/course_recent:showall"
	CapViewHidden       Capability = "course:viewhiddencourses"
	CapViewParticipants Capability = "course:viewparticipants"
)

// AccessChecker answers capability checks. Authorization is owned by the
// host platform; this module only ever asks, it never grants.
type AccessChecker interface {
	HasCapability(ctx context.Context, userID int, c Context, cap Capability) (bool, error)
}
