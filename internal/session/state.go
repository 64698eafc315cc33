package session

import "encoding/json"

// State is the whole navigation state of one session. A nil View means
// nobody is signed in.
type State struct {
	Page        Page
	View        View
	SelectedJob string
}

// Initial returns the signed-out state shown on startup.
func Initial() State {
	return State{Page: PageDashboard}
}

// SignedIn reports whether a user is signed in.
func (s State) SignedIn() bool {
	return s.View != nil
}

// MarshalJSON flattens the view into role, name and pages.
func (s State) MarshalJSON() ([]byte, error) {
	out := struct {
		SignedIn    bool   `json:"signedIn"`
		Role        Role   `json:"role,omitempty"`
		Name        string `json:"name,omitempty"`
		Page        Page   `json:"page"`
		Pages       []Page `json:"pages"`
		SelectedJob string `json:"selectedJob,omitempty"`
	}{
		SignedIn:    s.SignedIn(),
		Page:        s.Page,
		Pages:       []Page{},
		SelectedJob: s.SelectedJob,
	}
	if s.View != nil {
		out.Role = s.View.Role()
		out.Name = s.View.Name()
		out.Pages = s.View.Pages()
	}
	return json.Marshal(out)
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// SignedIn starts a session with the given view.
type SignedIn struct {
	View View
}

// SignedOut ends the session.
type SignedOut struct{}

// Navigated moves to Page. A non-empty JobID also selects that job.
type Navigated struct {
	Page  Page
	JobID string
}

// JobSelected selects a job for the interview page.
type JobSelected struct {
	JobID string
}

func (SignedIn) isEvent()    {}
func (SignedOut) isEvent()   {}
func (Navigated) isEvent()   {}
func (JobSelected) isEvent() {}

// Reduce returns the state that follows s after e. It never mutates s.
// Navigation to a page the view cannot reach lands on the dashboard, and
// events other than sign-in are ignored while signed out.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case SignedIn:
		if ev.View == nil {
			return s
		}
		return State{Page: PageDashboard, View: ev.View}
	case SignedOut:
		return Initial()
	}

	if !s.SignedIn() {
		return s
	}

	switch ev := e.(type) {
	case Navigated:
		if ev.JobID != "" {
			s.SelectedJob = ev.JobID
		}
		if Allows(s.View, ev.Page) {
			s.Page = ev.Page
		} else {
			s.Page = PageDashboard
		}
	case JobSelected:
		s.SelectedJob = ev.JobID
	}
	return s
}
