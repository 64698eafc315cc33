// Package session models the signed-in user's navigation state. The role is
// resolved once into a View when the session starts; navigation is a pure
// reducer over State.
package session

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownRole is returned by Resolve for roles other than jobseeker and
// employer.
var ErrUnknownRole = errors.New("unknown role")

// Role identifies which experience a user signed in to.
type Role string

// Roles.
const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
)

// Page is a top-level screen key.
type Page string

// Pages.
const (
	PageDashboard Page = "dashboard"
	PageApply     Page = "apply"
	PageInterview Page = "interview"
	PageProfile   Page = "profile"
)

// View is the role-specific part of a session. It is either JobSeekerView or
// EmployerView.
type View interface {
	Role() Role
	Name() string
	// Pages lists the pages reachable from the navigation bar, dashboard first.
	Pages() []Page
	isView()
}

// JobSeekerView is the candidate experience with the bottom navigation bar.
type JobSeekerView struct {
	DisplayName string
}

func (v JobSeekerView) Role() Role   { return RoleJobSeeker }
func (v JobSeekerView) Name() string { return v.DisplayName }
func (v JobSeekerView) Pages() []Page {
	return []Page{PageDashboard, PageApply, PageInterview, PageProfile}
}
func (JobSeekerView) isView() {}

// EmployerView is the recruiter dashboard. It has no navigation bar.
type EmployerView struct {
	DisplayName string
}

func (v EmployerView) Role() Role    { return RoleEmployer }
func (v EmployerView) Name() string  { return v.DisplayName }
func (v EmployerView) Pages() []Page { return []Page{PageDashboard} }
func (EmployerView) isView()         {}

// Resolve turns a stored role flag and display name into a View.
func Resolve(role, name string) (View, error) {
	switch Role(role) {
	case RoleJobSeeker:
		return JobSeekerView{DisplayName: name}, nil
	case RoleEmployer:
		return EmployerView{DisplayName: name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

// Allows reports whether p is reachable from v.
func Allows(v View, p Page) bool {
	return v != nil && slices.Contains(v.Pages(), p)
}
