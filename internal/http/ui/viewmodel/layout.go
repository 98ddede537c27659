// Package viewmodel holds the data shapes shared by page templates.
package viewmodel

// User is the signed-in recruiter shown in the navigation bar.
type User struct {
	ID    string
	Email string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	SSOEnabled      bool
	User            *User
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

// NavItem is one entry of the recruiter navigation bar.
type NavItem struct {
	Page  string
	Label string
	Href  string
}

// RecruiterNav lists the navigation entries for signed-in recruiters.
func RecruiterNav() []NavItem {
	return []NavItem{
		{Page: "dashboard", Label: "Dashboard", Href: "/dashboard"},
		{Page: "my-jobs", Label: "My Jobs", Href: "/my-jobs"},
		{Page: "post-job", Label: "Post a Job", Href: "/post-job"},
	}
}
