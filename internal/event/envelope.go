package event

import "encoding/json"

// Envelope is the parsed JSON body of a webhook delivery.
//
// The shape varies by event type and is controlled by the upstream sender,
// which may add fields at any time. Only the handful of fields the router
// logs are typed; everything else is ignored by the decoder. The unmodified
// body is retained in Raw for handlers that need the full payload.
type Envelope struct {
	Action      string       `json:"action"`
	Repository  *Repository  `json:"repository"`
	Issue       *Issue       `json:"issue"`
	PullRequest *PullRequest `json:"pull_request"`
	Comment     *Comment     `json:"comment"`
	Release     *Release     `json:"release"`
	Sender      *User        `json:"sender"`

	// Push event fields
	Ref     string   `json:"ref"`
	Commits []Commit `json:"commits"`

	// Ping event field
	Zen string `json:"zen"`

	// Raw is the exact body bytes as received, set by the ingestion gate.
	Raw json.RawMessage `json:"-"`
}

// Repository identifies the repository a delivery belongs to.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    User   `json:"owner"`
}

// Issue carries the issue fields the router reports on.
type Issue struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Labels []Label `json:"labels"`
	User   *User   `json:"user"`
}

// PullRequest carries the pull request fields the router reports on.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Head   Ref    `json:"head"`
	Base   Ref    `json:"base"`
	User   *User  `json:"user"`
}

// Ref is a git reference (branch) on a pull request.
type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// Comment is an issue or review comment.
type Comment struct {
	Body string `json:"body"`
	User *User  `json:"user"`
}

// Release carries release metadata.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
}

// Commit is a single commit in a push event.
type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// User is a GitHub account reference.
type User struct {
	Login string `json:"login"`
}

// RepoFullName returns the repository full name, or "" when the payload
// carries no repository block.
func (e *Envelope) RepoFullName() string {
	if e.Repository == nil {
		return ""
	}
	return e.Repository.FullName
}
