package githubtools

import (
	"context"

	"github.com/google/go-github/v66/github"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
)

func (c *Client) pullRequestTools() []mcp.Tool {
	pullNumber := mcp.Property{Type: "number", Description: "PR number"}

	return []mcp.Tool{
		{
			Name:        "create_pull_request",
			Description: "Create a pull request",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":  repoProperty(),
				"title": {Type: "string", Description: "PR title"},
				"body":  {Type: "string", Description: "PR description"},
				"head":  {Type: "string", Description: "Branch containing changes (e.g., 'feature-branch')"},
				"base":  {Type: "string", Description: "Branch to merge into (e.g., 'main')", Default: "main"},
				"draft": {Type: "boolean", Description: "Create as draft PR", Default: false},
			}, "repo", "title", "head"),
			Handler: c.createPullRequest,
		},
		{
			Name:        "merge_pull_request",
			Description: "Merge a pull request",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":           repoProperty(),
				"pull_number":    pullNumber,
				"commit_title":   {Type: "string", Description: "Title for the merge commit (optional)"},
				"commit_message": {Type: "string", Description: "Message for the merge commit (optional)"},
				"merge_method": {
					Type:        "string",
					Enum:        []string{"merge", "squash", "rebase"},
					Description: "Merge method to use",
					Default:     "merge",
				},
			}, "repo", "pull_number"),
			Handler: c.mergePullRequest,
		},
		{
			Name:        "get_pull_request",
			Description: "Get details of a specific pull request",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":        repoProperty(),
				"pull_number": pullNumber,
			}, "repo", "pull_number"),
			Handler: c.getPullRequest,
		},
		{
			Name:        "list_pr_checks",
			Description: "List CI check runs for a pull request",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":        repoProperty(),
				"pull_number": pullNumber,
			}, "repo", "pull_number"),
			Handler: c.listPRChecks,
		},
		{
			Name:        "list_pr_reviews",
			Description: "List reviews on a pull request",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":        repoProperty(),
				"pull_number": pullNumber,
			}, "repo", "pull_number"),
			Handler: c.listPRReviews,
		},
	}
}

// repoAndNumber reads the repo name and a numeric argument shared by most
// pull request and issue tools.
func repoAndNumber(args mcp.Arguments, numberArg string) (string, int, error) {
	repo, err := args.String("repo")
	if err != nil {
		return "", 0, err
	}
	n, err := args.Int(numberArg)
	if err != nil {
		return "", 0, err
	}
	return repo, n, nil
}

type createdPullRequest struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Head   string `json:"head"`
	Base   string `json:"base"`
}

func (c *Client) createPullRequest(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	title, err := args.String("title")
	if err != nil {
		return nil, err
	}
	head, err := args.String("head")
	if err != nil {
		return nil, err
	}
	body, err := args.OptionalString("body", "")
	if err != nil {
		return nil, err
	}
	base, err := args.OptionalString("base", "main")
	if err != nil {
		return nil, err
	}
	draft, err := args.OptionalBool("draft", false)
	if err != nil {
		return nil, err
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, repo, &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(head),
		Base:  github.String(base),
		Body:  github.String(body),
		Draft: github.Bool(draft),
	})
	if err != nil {
		return nil, apiError(err)
	}

	return createdPullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		Title:  pr.GetTitle(),
		State:  pr.GetState(),
		Head:   pr.GetHead().GetRef(),
		Base:   pr.GetBase().GetRef(),
	}, nil
}

type mergeResult struct {
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
	SHA     string `json:"sha"`
}

func (c *Client) mergePullRequest(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, number, err := repoAndNumber(args, "pull_number")
	if err != nil {
		return nil, err
	}
	commitTitle, err := args.OptionalString("commit_title", "")
	if err != nil {
		return nil, err
	}
	commitMessage, err := args.OptionalString("commit_message", "")
	if err != nil {
		return nil, err
	}
	method, err := args.OptionalString("merge_method", "merge")
	if err != nil {
		return nil, err
	}

	res, _, err := c.gh.PullRequests.Merge(ctx, c.owner, repo, number, commitMessage, &github.PullRequestOptions{
		CommitTitle: commitTitle,
		MergeMethod: method,
	})
	if err != nil {
		return nil, apiError(err)
	}

	return mergeResult{
		Merged:  res.GetMerged(),
		Message: res.GetMessage(),
		SHA:     res.GetSHA(),
	}, nil
}

type pullRequestDetail struct {
	Number         int               `json:"number"`
	Title          string            `json:"title"`
	Body           *string           `json:"body"`
	State          string            `json:"state"`
	Draft          bool              `json:"draft"`
	Merged         bool              `json:"merged"`
	Mergeable      *bool             `json:"mergeable"`
	MergeableState string            `json:"mergeable_state"`
	Head           string            `json:"head"`
	Base           string            `json:"base"`
	User           string            `json:"user"`
	URL            string            `json:"url"`
	CreatedAt      *github.Timestamp `json:"created_at"`
	UpdatedAt      *github.Timestamp `json:"updated_at"`
	Additions      int               `json:"additions"`
	Deletions      int               `json:"deletions"`
	ChangedFiles   int               `json:"changed_files"`
}

func (c *Client) getPullRequest(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, number, err := repoAndNumber(args, "pull_number")
	if err != nil {
		return nil, err
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, repo, number)
	if err != nil {
		return nil, apiError(err)
	}

	return pullRequestDetail{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.Body,
		State:          pr.GetState(),
		Draft:          pr.GetDraft(),
		Merged:         pr.GetMerged(),
		Mergeable:      pr.Mergeable,
		MergeableState: pr.GetMergeableState(),
		Head:           pr.GetHead().GetRef(),
		Base:           pr.GetBase().GetRef(),
		User:           pr.GetUser().GetLogin(),
		URL:            pr.GetHTMLURL(),
		CreatedAt:      pr.CreatedAt,
		UpdatedAt:      pr.UpdatedAt,
		Additions:      pr.GetAdditions(),
		Deletions:      pr.GetDeletions(),
		ChangedFiles:   pr.GetChangedFiles(),
	}, nil
}

type checkSummary struct {
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	Conclusion  *string           `json:"conclusion"`
	StartedAt   *github.Timestamp `json:"started_at"`
	CompletedAt *github.Timestamp `json:"completed_at"`
	URL         string            `json:"url"`
}

type checksResult struct {
	TotalCount int            `json:"total_count"`
	Checks     []checkSummary `json:"checks"`
}

func (c *Client) listPRChecks(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, number, err := repoAndNumber(args, "pull_number")
	if err != nil {
		return nil, err
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, repo, number)
	if err != nil {
		return nil, apiError(err)
	}

	res, _, err := c.gh.Checks.ListCheckRunsForRef(ctx, c.owner, repo, pr.GetHead().GetSHA(), nil)
	if err != nil {
		return nil, apiError(err)
	}

	out := checksResult{
		TotalCount: res.GetTotal(),
		Checks:     make([]checkSummary, 0, len(res.CheckRuns)),
	}
	for _, cr := range res.CheckRuns {
		out.Checks = append(out.Checks, checkSummary{
			Name:        cr.GetName(),
			Status:      cr.GetStatus(),
			Conclusion:  cr.Conclusion,
			StartedAt:   cr.StartedAt,
			CompletedAt: cr.CompletedAt,
			URL:         cr.GetHTMLURL(),
		})
	}
	return out, nil
}

type reviewSummary struct {
	ID          int64             `json:"id"`
	User        string            `json:"user"`
	State       string            `json:"state"`
	Body        string            `json:"body"`
	SubmittedAt *github.Timestamp `json:"submitted_at"`
	URL         string            `json:"url"`
}

func (c *Client) listPRReviews(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, number, err := repoAndNumber(args, "pull_number")
	if err != nil {
		return nil, err
	}

	reviews, _, err := c.gh.PullRequests.ListReviews(ctx, c.owner, repo, number, nil)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]reviewSummary, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewSummary{
			ID:          r.GetID(),
			User:        r.GetUser().GetLogin(),
			State:       r.GetState(),
			Body:        r.GetBody(),
			SubmittedAt: r.SubmittedAt,
			URL:         r.GetHTMLURL(),
		})
	}
	return out, nil
}
