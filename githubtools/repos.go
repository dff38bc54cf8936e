package githubtools

import (
	"context"

	"github.com/google/go-github/v66/github"
	"github.com/jrsteele09/github-mcp-bridge/mcp"
)

type repoSummary struct {
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description *string `json:"description"`
	Private     bool    `json:"private"`
	URL         string  `json:"url"`
}

func (c *Client) repoTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_repos",
			Description: "List your GitHub repositories",
			InputSchema: mcp.ObjectSchema(map[string]mcp.Property{
				"type": {
					Type:        "string",
					Enum:        []string{"all", "owner", "public", "private"},
					Description: "Type of repos to list",
					Default:     "owner",
				},
				"per_page": {Type: "number", Description: "Results per page (max 100)", Default: 30},
			}),
			Handler: c.listRepos,
		},
	}
}

func (c *Client) listRepos(ctx context.Context, args mcp.Arguments) (any, error) {
	repoType, err := args.OptionalString("type", "owner")
	if err != nil {
		return nil, err
	}
	perPage, err := args.OptionalInt("per_page", 30)
	if err != nil {
		return nil, err
	}

	repos, _, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Type:        repoType,
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, apiError(err)
	}

	out := make([]repoSummary, 0, len(repos))
	for _, r := range repos {
		out = append(out, repoSummary{
			Name:        r.GetName(),
			FullName:    r.GetFullName(),
			Description: r.Description,
			Private:     r.GetPrivate(),
			URL:         r.GetHTMLURL(),
		})
	}
	return out, nil
}
