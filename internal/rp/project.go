package rp

import "fmt"

// ProjectScope provides access to resources within a specific Report Portal
// project.
type ProjectScope struct {
	client      *Client
	projectName string
}

// Project returns a ProjectScope for the named project.
func (c *Client) Project(name string) *ProjectScope {
	return &ProjectScope{client: c, projectName: name}
}

// Launches returns a LaunchScope for querying launches in this project.
func (p *ProjectScope) Launches() *LaunchScope {
	return &LaunchScope{project: p}
}

// Items returns an ItemScope for querying test items in this project.
func (p *ProjectScope) Items() *ItemScope {
	return &ItemScope{project: p}
}

// LaunchURL returns the UI link for a launch in this project.
func (p *ProjectScope) LaunchURL(launchID int) string {
	return fmt.Sprintf("%s/ui/#%s/launches/all/%d", p.client.baseURL, p.projectName, launchID)
}
