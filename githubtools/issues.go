package githubtools

import (
	"context"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
)

func (c *Client) issueTools() []mcp.Tool {
	issueNumber := mcp.Property{Type: "number", Description: "Issue number"}

	return []mcp.Tool{
		{
			Name:        "create_issue",
			Description: "Create a GitHub issue. Use this to trigger Claude Code tasks.",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":  {Type: "string", Description: "Repository name (without owner)"},
				"title": {Type: "string", Description: "Issue title"},
				"body":  {Type: "string", Description: "Issue body/description"},
				"labels": {
					Type:        "array",
					Items:       &mcp.Property{Type: "string"},
					Description: "Labels to add (e.g., ['" + c.defaultLabel + "'])",
				},
			}, "repo", "title"),
			Handler: c.createIssue,
		},
		{
			Name:        "get_issue",
			Description: "Get details of a specific issue",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":         repoProperty(),
				"issue_number": issueNumber,
			}, "repo", "issue_number"),
			Handler: c.getIssue,
		},
		{
			Name:        "list_issues",
			Description: "List issues in a repository",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":   repoProperty(),
				"state":  {Type: "string", Enum: []string{"open", "closed", "all"}, Default: "open"},
				"labels": {Type: "string", Description: "Comma-separated label names"},
			}, "repo"),
			Handler: c.listIssues,
		},
		{
			Name:        "add_issue_comment",
			Description: "Add a comment to an issue",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":         repoProperty(),
				"issue_number": issueNumber,
				"body":         {Type: "string", Description: "Comment body"},
			}, "repo", "issue_number", "body"),
			Handler: c.addIssueComment,
		},
		{
			Name:        "list_issue_comments",
			Description: "List comments on an issue or pull request",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":         repoProperty(),
				"issue_number": {Type: "number", Description: "Issue or PR number"},
				"per_page":     {Type: "number", Description: "Results per page (max 100)", Default: 30},
			}, "repo", "issue_number"),
			Handler: c.listIssueComments,
		},
	}
}

type createdIssue struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	State  string `json:"state"`
}

func (c *Client) createIssue(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	title, err := args.String("title")
	if err != nil {
		return nil, err
	}
	body, err := args.OptionalString("body", "")
	if err != nil {
		return nil, err
	}
	labels, supplied, err := args.StringList("labels")
	if err != nil {
		return nil, err
	}
	if !supplied {
		labels = []string{c.defaultLabel}
	}

	issue, _, err := c.gh.Issues.Create(ctx, c.owner, repo, &github.IssueRequest{
		Title:  github.String(title),
		Body:   github.String(body),
		Labels: &labels,
	})
	if err != nil {
		return nil, apiError(err)
	}

	return createdIssue{
		Number: issue.GetNumber(),
		URL:    issue.GetHTMLURL(),
		Title:  issue.GetTitle(),
		State:  issue.GetState(),
	}, nil
}

type issueDetail struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   *string  `json:"body"`
	State  string   `json:"state"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

func (c *Client) getIssue(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	number, err := args.Int("issue_number")
	if err != nil {
		return nil, err
	}

	issue, _, err := c.gh.Issues.Get(ctx, c.owner, repo, number)
	if err != nil {
		return nil, apiError(err)
	}

	return issueDetail{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.Body,
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
		Labels: labelNames(issue.Labels),
	}, nil
}

type issueSummary struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	State  string   `json:"state"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

func (c *Client) listIssues(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	state, err := args.OptionalString("state", "open")
	if err != nil {
		return nil, err
	}
	labelFilter, err := args.OptionalString("labels", "")
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: 20},
	}
	if labelFilter != "" {
		for _, l := range strings.Split(labelFilter, ",") {
			if l = strings.TrimSpace(l); l != "" {
				opts.Labels = append(opts.Labels, l)
			}
		}
	}

	issues, _, err := c.gh.Issues.ListByRepo(ctx, c.owner, repo, opts)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]issueSummary, 0, len(issues))
	for _, i := range issues {
		out = append(out, issueSummary{
			Number: i.GetNumber(),
			Title:  i.GetTitle(),
			State:  i.GetState(),
			URL:    i.GetHTMLURL(),
			Labels: labelNames(i.Labels),
		})
	}
	return out, nil
}

type createdComment struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

func (c *Client) addIssueComment(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	number, err := args.Int("issue_number")
	if err != nil {
		return nil, err
	}
	body, err := args.String("body")
	if err != nil {
		return nil, err
	}

	comment, _, err := c.gh.Issues.CreateComment(ctx, c.owner, repo, number, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return nil, apiError(err)
	}
	return createdComment{ID: comment.GetID(), URL: comment.GetHTMLURL()}, nil
}

type commentSummary struct {
	ID        int64             `json:"id"`
	User      string            `json:"user"`
	Body      *string           `json:"body"`
	CreatedAt *github.Timestamp `json:"created_at"`
	URL       string            `json:"url"`
}

func (c *Client) listIssueComments(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	number, err := args.Int("issue_number")
	if err != nil {
		return nil, err
	}
	perPage, err := args.OptionalInt("per_page", 30)
	if err != nil {
		return nil, err
	}

	comments, _, err := c.gh.Issues.ListComments(ctx, c.owner, repo, number, &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]commentSummary, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentSummary{
			ID:        cm.GetID(),
			User:      cm.GetUser().GetLogin(),
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
			URL:       cm.GetHTMLURL(),
		})
	}
	return out, nil
}
