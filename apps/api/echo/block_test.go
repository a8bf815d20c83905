package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
	"github.com/trezcool/kumbuka/core/recent"
)

func Test_blockApi_render(t *testing.T) {
	te := newTestEnv(t)

	now := time.Now().UTC()

	te.db.AddCourse(recent.Course{ID: 2, FullName: "Intro to Go", ShortName: "GO101", Visible: true})
	te.db.AddCourse(recent.Course{ID: 3, FullName: "Databases", ShortName: "DB201", Visible: true})
	te.db.AddCourse(recent.Course{ID: 4, FullName: "Secret Course", ShortName: "SEC1", Visible: false})

	// user 1: three courses viewed, most recent first is 4, 3, 2
	te.db.AddCourseView(1, 2, now.Add(-72*time.Hour))
	te.db.AddCourseView(1, 3, now.Add(-48*time.Hour))
	te.db.AddCourseView(1, 4, now.Add(-24*time.Hour))
	te.db.Grant(1, core.SystemContext(), core.CapViewParticipants)

	// user 2: no views at all
	te.db.Grant(2, core.SystemContext(), core.CapViewParticipants)

	// user 3: sees hidden courses dimmed, and gets the settings footer
	te.db.AddCourseView(3, 4, now.Add(-time.Hour))
	te.db.Grant(3, core.SystemContext(), core.CapViewParticipants)
	te.db.Grant(3, core.SystemContext(), core.CapViewHidden)
	te.db.Grant(3, core.BlockContext(0), core.CapChangeLimit)

	item := func(c recent.Course, cssClass string) BlockItem {
		return BlockItem{
			CourseID: c.ID,
			Title:    c.ShortName,
			Text:     c.FullName,
			URL:      te.conf.CourseURL(c.ID),
			CSSClass: cssClass,
		}
	}

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/block",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Guest gets an empty block", path: "/v1/block", token: te.guestToken(t),
			wantData: marchallObj(t, BlockContent{Items: []BlockItem{}}),
		},
		{
			name: "No recent views shows the placeholder", path: "/v1/block", token: te.token(t, 2, "bob"),
			wantData: marchallObj(t, BlockContent{Items: []BlockItem{{Text: emptyBlockText}}}),
		},
		{
			name: "Courses listed most recently viewed first", path: "/v1/block?courseid=2", token: te.token(t, 1, "awe"),
			wantData: marchallObj(t, BlockContent{Items: []BlockItem{
				item(recent.Course{ID: 4, FullName: "Secret Course", ShortName: "SEC1"}, "visible"),
				item(recent.Course{ID: 3, FullName: "Databases", ShortName: "DB201"}, "visible"),
				item(recent.Course{ID: 2, FullName: "Intro to Go", ShortName: "GO101"}, "visible"),
			}}),
		},
		{
			name: "Hidden course dimmed and footer present", path: "/v1/block?courseid=4", token: te.token(t, 3, "tutor"),
			wantData: marchallObj(t, BlockContent{
				Items:  []BlockItem{item(recent.Course{ID: 4, FullName: "Secret Course", ShortName: "SEC1"}, "dimmed")},
				Footer: &BlockFooter{Text: "User settings", URL: "/v1/settings?courseid=4"},
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			te.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_blockApi_render_userLimit(t *testing.T) {
	te := newTestEnv(t)

	now := time.Now().UTC()
	for id := 2; id <= 9; id++ {
		te.db.AddCourse(recent.Course{ID: id, FullName: "Course", ShortName: "C", Visible: true})
		te.db.AddCourseView(1, id, now.Add(-time.Duration(id)*time.Hour))
	}
	te.db.Grant(1, core.SystemContext(), core.CapViewParticipants)

	// cap the block at 2 via the user preference
	if _, err := te.prefRepo.CreatePreference(context.Background(), preference.Preference{UserID: 1, Limit: 2}); err != nil {
		t.Fatalf("CreatePreference(): %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/block", te.token(t, 1, "awe"))
	te.app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	var content struct {
		Items []BlockItem `json:"items"`
	}
	decodeBody(t, rec, &content)
	if len(content.Items) != 2 {
		t.Fatalf("len(items) = %d; want 2", len(content.Items))
	}
	// most recently viewed courses win
	if content.Items[0].CourseID != 2 || content.Items[1].CourseID != 3 {
		t.Errorf("items = %+v; want courses 2, 3", content.Items)
	}
}

func Test_blockApi_render_rolePolicy(t *testing.T) {
	te := newTestEnv(t)
	te.conf.Block.MustHaveRole = true

	now := time.Now().UTC()
	te.db.AddCourse(recent.Course{ID: 2, FullName: "Enrolled", ShortName: "IN", Visible: true})
	te.db.AddCourse(recent.Course{ID: 3, FullName: "Just Visited", ShortName: "OUT", Visible: true})
	te.db.AddCourseView(1, 2, now.Add(-2*time.Hour))
	te.db.AddCourseView(1, 3, now.Add(-time.Hour))
	te.db.AssignRole(1, 2)

	req, rec := newAuthRequest(http.MethodGet, "/v1/block", te.token(t, 1, "awe"))
	te.app.ServeHTTP(rec, req)

	var content struct {
		Items []BlockItem `json:"items"`
	}
	decodeBody(t, rec, &content)
	if len(content.Items) != 1 || content.Items[0].CourseID != 2 {
		t.Errorf("items = %+v; want only the enrolled course 2", content.Items)
	}

	// the showall capability lifts the role policy
	te.db.Grant(1, core.BlockContext(0), core.CapShowAll)
	te.db.Grant(1, core.SystemContext(), core.CapViewParticipants)

	req, rec = newAuthRequest(http.MethodGet, "/v1/block", te.token(t, 1, "awe"))
	te.app.ServeHTTP(rec, req)

	decodeBody(t, rec, &content)
	if len(content.Items) != 2 {
		t.Errorf("items = %+v; want both courses with showall", content.Items)
	}
}
