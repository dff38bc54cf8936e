package githubtools

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v66/github"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
)

// DefaultIssueLabel is applied to new issues when the caller gives no labels.
const DefaultIssueLabel = "claude-task"

// Client exposes GitHub operations as MCP tools. Every repository-scoped
// operation targets the configured owner.
type Client struct {
	gh           *github.Client
	owner        string
	defaultLabel string
}

// NewGitHubClient returns an API client authenticated with a personal access token.
func NewGitHubClient(token string, httpClient *http.Client) *github.Client {
	return github.NewClient(httpClient).WithAuthToken(token)
}

func New(gh *github.Client, owner, defaultIssueLabel string) *Client {
	if defaultIssueLabel == "" {
		defaultIssueLabel = DefaultIssueLabel
	}
	return &Client{
		gh:           gh,
		owner:        owner,
		defaultLabel: defaultIssueLabel,
	}
}

// Tools returns the tool catalogue in the order it is advertised.
func (c *Client) Tools() []mcp.Tool {
	var tools []mcp.Tool
	tools = append(tools, c.repoTools()...)
	tools = append(tools, c.issueTools()...)
	tools = append(tools, c.pullRequestTools()...)
	tools = append(tools, c.actionsTools()...)
	return tools
}

// apiError reduces GitHub API failures to the message GitHub returned.
func apiError(err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Message != "" {
		return errors.New(ghErr.Message)
	}
	return err
}

func repoProperty() mcp.Property {
	return mcp.Property{Type: "string", Description: "Repository name"}
}

func labelNames(labels []*github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}
