package githubtools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/go-github/v66/github"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
)

var workflowRunStatuses = []string{
	"completed", "action_required", "cancelled", "failure", "neutral", "skipped", "stale",
	"success", "timed_out", "in_progress", "queued", "requested", "waiting", "pending",
}

func (c *Client) actionsTools() []mcp.Tool {
	runID := mcp.Property{Type: "number", Description: "Workflow run ID"}
	runSchema := mcp.ObjectSchema(map[string]mcp.Property{
		"repo":   repoProperty(),
		"run_id": runID,
	}, "repo", "run_id")

	return []mcp.Tool{
		{
			Name:        "list_workflows",
			Description: "List GitHub Actions workflows in a repository",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo": repoProperty(),
			}, "repo"),
			Handler: c.listWorkflows,
		},
		{
			Name:        "list_workflow_runs",
			Description: "List recent GitHub Actions workflow runs",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"repo":        repoProperty(),
				"workflow_id": {Type: "string", Description: "Workflow ID or filename (e.g., 'ci.yml'). If omitted, lists all runs."},
				"branch":      {Type: "string", Description: "Filter by branch name"},
				"status":      {Type: "string", Enum: workflowRunStatuses, Description: "Filter by status"},
				"per_page":    {Type: "number", Description: "Results per page (max 100)", Default: 10},
			}, "repo"),
			Handler: c.listWorkflowRuns,
		},
		{
			Name:        "get_workflow_run",
			Description: "Get details of a specific workflow run",
			InputSchema: runSchema,
			Handler:     c.getWorkflowRun,
		},
		{
			Name:        "list_workflow_run_jobs",
			Description: "List jobs for a workflow run",
			InputSchema: runSchema,
			Handler:     c.listWorkflowRunJobs,
		},
		{
			Name:        "rerun_workflow",
			Description: "Rerun all jobs in a workflow run",
			InputSchema: runSchema,
			Handler:     c.rerunWorkflow,
		},
		{
			Name:        "rerun_failed_jobs",
			Description: "Rerun only the failed jobs in a workflow run",
			InputSchema: runSchema,
			Handler:     c.rerunFailedJobs,
		},
	}
}

type workflowSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
	URL   string `json:"url"`
}

func (c *Client) listWorkflows(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}

	res, _, err := c.gh.Actions.ListWorkflows(ctx, c.owner, repo, nil)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]workflowSummary, 0, len(res.Workflows))
	for _, w := range res.Workflows {
		out = append(out, workflowSummary{
			ID:    w.GetID(),
			Name:  w.GetName(),
			Path:  w.GetPath(),
			State: w.GetState(),
			URL:   w.GetHTMLURL(),
		})
	}
	return out, nil
}

type runSummary struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Workflow   int64             `json:"workflow"`
	Status     string            `json:"status"`
	Conclusion *string           `json:"conclusion"`
	Branch     string            `json:"branch"`
	Event      string            `json:"event"`
	CreatedAt  *github.Timestamp `json:"created_at"`
	UpdatedAt  *github.Timestamp `json:"updated_at"`
	URL        string            `json:"url"`
	RunNumber  int               `json:"run_number"`
}

type runsResult struct {
	TotalCount int          `json:"total_count"`
	Runs       []runSummary `json:"runs"`
}

// workflowSelector returns the workflow filename or numeric ID given as
// workflow_id. A numeric string is treated as an ID.
func workflowSelector(args mcp.Arguments) (fileName string, id int64, err error) {
	v, ok := args["workflow_id"]
	if !ok || v == nil {
		return "", 0, nil
	}
	switch t := v.(type) {
	case string:
		if n, convErr := strconv.ParseInt(t, 10, 64); convErr == nil {
			return "", n, nil
		}
		return t, 0, nil
	case float64:
		return "", int64(t), nil
	default:
		return "", 0, fmt.Errorf("invalid argument: workflow_id must be a string or number")
	}
}

func (c *Client) listWorkflowRuns(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, err := args.String("repo")
	if err != nil {
		return nil, err
	}
	branch, err := args.OptionalString("branch", "")
	if err != nil {
		return nil, err
	}
	status, err := args.OptionalString("status", "")
	if err != nil {
		return nil, err
	}
	perPage, err := args.OptionalInt("per_page", 10)
	if err != nil {
		return nil, err
	}
	fileName, workflowID, err := workflowSelector(args)
	if err != nil {
		return nil, err
	}

	opts := &github.ListWorkflowRunsOptions{
		Branch:      branch,
		Status:      status,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var runs *github.WorkflowRuns
	switch {
	case fileName != "":
		runs, _, err = c.gh.Actions.ListWorkflowRunsByFileName(ctx, c.owner, repo, fileName, opts)
	case workflowID != 0:
		runs, _, err = c.gh.Actions.ListWorkflowRunsByID(ctx, c.owner, repo, workflowID, opts)
	default:
		runs, _, err = c.gh.Actions.ListRepositoryWorkflowRuns(ctx, c.owner, repo, opts)
	}
	if err != nil {
		return nil, apiError(err)
	}

	out := runsResult{
		TotalCount: runs.GetTotalCount(),
		Runs:       make([]runSummary, 0, len(runs.WorkflowRuns)),
	}
	for _, r := range runs.WorkflowRuns {
		out.Runs = append(out.Runs, runSummary{
			ID:         r.GetID(),
			Name:       r.GetName(),
			Workflow:   r.GetWorkflowID(),
			Status:     r.GetStatus(),
			Conclusion: r.Conclusion,
			Branch:     r.GetHeadBranch(),
			Event:      r.GetEvent(),
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
			URL:        r.GetHTMLURL(),
			RunNumber:  r.GetRunNumber(),
		})
	}
	return out, nil
}

type runDetail struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Status        string            `json:"status"`
	Conclusion    *string           `json:"conclusion"`
	Branch        string            `json:"branch"`
	CommitSHA     string            `json:"commit_sha"`
	CommitMessage *string           `json:"commit_message"`
	Event         string            `json:"event"`
	Actor         *string           `json:"actor"`
	CreatedAt     *github.Timestamp `json:"created_at"`
	UpdatedAt     *github.Timestamp `json:"updated_at"`
	RunStartedAt  *github.Timestamp `json:"run_started_at"`
	URL           string            `json:"url"`
	RunNumber     int               `json:"run_number"`
	RunAttempt    int               `json:"run_attempt"`
}

func (c *Client) getWorkflowRun(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, id, err := repoAndNumber(args, "run_id")
	if err != nil {
		return nil, err
	}

	run, _, err := c.gh.Actions.GetWorkflowRunByID(ctx, c.owner, repo, int64(id))
	if err != nil {
		return nil, apiError(err)
	}

	detail := runDetail{
		ID:           run.GetID(),
		Name:         run.GetName(),
		Status:       run.GetStatus(),
		Conclusion:   run.Conclusion,
		Branch:       run.GetHeadBranch(),
		CommitSHA:    run.GetHeadSHA(),
		Event:        run.GetEvent(),
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
		RunStartedAt: run.RunStartedAt,
		URL:          run.GetHTMLURL(),
		RunNumber:    run.GetRunNumber(),
		RunAttempt:   run.GetRunAttempt(),
	}
	if run.HeadCommit != nil {
		detail.CommitMessage = run.HeadCommit.Message
	}
	if run.Actor != nil {
		detail.Actor = run.Actor.Login
	}
	return detail, nil
}

type stepSummary struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Conclusion *string `json:"conclusion"`
	Number     int64   `json:"number"`
}

type jobSummary struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	Conclusion  *string           `json:"conclusion"`
	StartedAt   *github.Timestamp `json:"started_at"`
	CompletedAt *github.Timestamp `json:"completed_at"`
	URL         string            `json:"url"`
	Steps       []stepSummary     `json:"steps"`
}

func (c *Client) listWorkflowRunJobs(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, id, err := repoAndNumber(args, "run_id")
	if err != nil {
		return nil, err
	}

	jobs, _, err := c.gh.Actions.ListWorkflowJobs(ctx, c.owner, repo, int64(id), nil)
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]jobSummary, 0, len(jobs.Jobs))
	for _, j := range jobs.Jobs {
		steps := make([]stepSummary, 0, len(j.Steps))
		for _, s := range j.Steps {
			steps = append(steps, stepSummary{
				Name:       s.GetName(),
				Status:     s.GetStatus(),
				Conclusion: s.Conclusion,
				Number:     s.GetNumber(),
			})
		}
		out = append(out, jobSummary{
			ID:          j.GetID(),
			Name:        j.GetName(),
			Status:      j.GetStatus(),
			Conclusion:  j.Conclusion,
			StartedAt:   j.StartedAt,
			CompletedAt: j.CompletedAt,
			URL:         j.GetHTMLURL(),
			Steps:       steps,
		})
	}
	return out, nil
}

type rerunResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	RunID   int64  `json:"run_id"`
}

func (c *Client) rerunWorkflow(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, id, err := repoAndNumber(args, "run_id")
	if err != nil {
		return nil, err
	}
	if _, err := c.gh.Actions.RerunWorkflowByID(ctx, c.owner, repo, int64(id)); err != nil {
		return nil, apiError(err)
	}
	return rerunResult{
		Success: true,
		Message: fmt.Sprintf("Workflow run %d has been queued for rerun", id),
		RunID:   int64(id),
	}, nil
}

func (c *Client) rerunFailedJobs(ctx context.Context, args mcp.Arguments) (any, error) {
	repo, id, err := repoAndNumber(args, "run_id")
	if err != nil {
		return nil, err
	}
	if _, err := c.gh.Actions.RerunFailedJobsByID(ctx, c.owner, repo, int64(id)); err != nil {
		return nil, apiError(err)
	}
	return rerunResult{
		Success: true,
		Message: fmt.Sprintf("Failed jobs in workflow run %d have been queued for rerun", id),
		RunID:   int64(id),
	}, nil
}
