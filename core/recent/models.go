package recent

// Course is a host platform course as surfaced by the activity log query.
type Course struct {
	ID        int
	FullName  string
	ShortName string
	Visible   bool
}

// CourseLink is one rendered block entry. Dimmed is only ever set for
// viewers allowed to see hidden courses; everyone else gets no visual
// distinction.
type CourseLink struct {
	CourseID  int    `json:"courseid"`
	FullName  string `json:"fullname"`
	ShortName string `json:"shortname"`
	Visible   bool   `json:"visible"`
	Dimmed    bool   `json:"dimmed"`
}
