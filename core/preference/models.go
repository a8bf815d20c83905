package preference

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Display limit bounds of the recent-courses block. The read path clamps
// into this range silently; the settings form rejects instead (see
// UpsertPreference.Validate). Both behaviors are intentional.
const (
	LowerLimit   = 1
	UpperLimit   = 10
	DefaultLimit = 5
)

// ClampLimit maps any limit into [LowerLimit, UpperLimit] without erroring.
func ClampLimit(limit int) int {
	if limit < LowerLimit {
		return LowerLimit
	}
	if limit > UpperLimit {
		return UpperLimit
	}
	return limit
}

// Preference is a user's override of how many recent courses to show.
// At most one row exists per user.
type Preference struct {
	ID        string    `json:"id"`
	UserID    int       `json:"userid"`
	Limit     int       `json:"userlimit"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// UpsertPreference is the settings form payload. ID is empty for a first
// submission; CourseID only carries the course to redirect back to.
type UpsertPreference struct {
	ID       string `json:"id"`
	UserID   int    `json:"userid"`
	Limit    int    `json:"userlimit" validate:"gte=1,lte=10"`
	CourseID int    `json:"courseid"`
}

func (up UpsertPreference) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}
