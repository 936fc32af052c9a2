package event

import (
	"context"
	"log/slog"

	"github.com/hookgate/hookgate/internal/log"
)

// Router dispatches validated webhook deliveries to per-event-type handlers.
//
// The event type is an open string tag: GitHub adds new event types over
// time, so unknown tags are a logged no-op rather than an error. Handlers
// currently only log the salient fields; they are the seam where future
// automation plugs in.
type Router struct {
	logger *slog.Logger
}

// NewRouter creates a Router logging through the shared slog setup.
func NewRouter() *Router {
	return &Router{logger: log.WithComponent("event")}
}

// NewRouterWithLogger creates a Router with an explicit logger (used in tests).
func NewRouterWithLogger(logger *slog.Logger) *Router {
	return &Router{logger: logger}
}

// Dispatch routes a delivery to its event-type handler. It returns only
// when handling has completed; the gate does not respond until then.
func (r *Router) Dispatch(ctx context.Context, eventType string, env *Envelope) error {
	switch eventType {
	case "ping":
		r.handlePing(env)
	case "push":
		r.handlePush(env)
	case "issues":
		r.handleIssues(env)
	case "issue_comment":
		r.handleIssueComment(env)
	case "pull_request":
		r.handlePullRequest(env)
	case "pull_request_review":
		r.handlePullRequestReview(env)
	case "release":
		r.handleRelease(env)
	default:
		// Unknown event types are legal; fall through without error.
		r.logger.Debug("unhandled event type", "event", eventType, "repo", env.RepoFullName())
	}
	return nil
}

func (r *Router) handlePing(env *Envelope) {
	r.logger.Info("ping received", "repo", env.RepoFullName(), "zen", env.Zen)
}

func (r *Router) handlePush(env *Envelope) {
	r.logger.Info("push received",
		"repo", env.RepoFullName(),
		"ref", env.Ref,
		"commits", len(env.Commits),
	)
	// CI triggering and branch indexing would start from here.
}

func (r *Router) handleIssues(env *Envelope) {
	logger := r.logger.With("repo", env.RepoFullName(), "action", env.Action)
	if env.Issue != nil {
		logger = logger.With("number", env.Issue.Number, "title", env.Issue.Title)
	}
	logger.Info("issue event received")
	// Auto-labeling and assignee routing would hook in here.
}

func (r *Router) handleIssueComment(env *Envelope) {
	logger := r.logger.With("repo", env.RepoFullName(), "action", env.Action)
	if env.Issue != nil {
		logger = logger.With("number", env.Issue.Number)
	}
	if env.Comment != nil && env.Comment.User != nil {
		logger = logger.With("commenter", env.Comment.User.Login)
	}
	logger.Info("issue comment received")
	// Command parsing (e.g. slash commands in comments) would hook in here.
}

func (r *Router) handlePullRequest(env *Envelope) {
	logger := r.logger.With("repo", env.RepoFullName(), "action", env.Action)
	if env.PullRequest != nil {
		logger = logger.With(
			"number", env.PullRequest.Number,
			"title", env.PullRequest.Title,
			"base", env.PullRequest.Base.Ref,
			"head", env.PullRequest.Head.Ref,
		)
	}
	logger.Info("pull request event received")
	// Review assignment and check-run creation would hook in here.
}

func (r *Router) handlePullRequestReview(env *Envelope) {
	logger := r.logger.With("repo", env.RepoFullName(), "action", env.Action)
	if env.PullRequest != nil {
		logger = logger.With("number", env.PullRequest.Number)
	}
	logger.Info("pull request review received")
	// Merge-readiness evaluation would hook in here.
}

func (r *Router) handleRelease(env *Envelope) {
	logger := r.logger.With("repo", env.RepoFullName(), "action", env.Action)
	if env.Release != nil {
		logger = logger.With("tag", env.Release.TagName)
	}
	logger.Info("release event received")
	// Release announcement and artifact promotion would hook in here.
}
