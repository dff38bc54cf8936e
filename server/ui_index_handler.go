package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/jrsteele09/github-mcp-bridge/mcp"
	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFiles embed.FS

type toolParam struct {
	Name        string
	Required    bool
	Type        string
	Description string
}

type toolCard struct {
	Name        string
	Description string
	Category    string
	Color       template.CSS
	Params      []toolParam
}

type indexPage struct {
	AppName      string
	ServerURL    string
	AllowedEmail string
	Tools        []toolCard
}

// IndexHandler renders the landing page listing the tool catalogue. The page
// is built once since the catalogue is fixed at startup.
func (s *Server) IndexHandler() (http.HandlerFunc, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("[IndexHandler] parse index template: %w", err)
	}

	data := indexPage{
		AppName:      s.config.GetAppName(),
		ServerURL:    s.config.GetBaseURL() + RouteMCP,
		AllowedEmail: s.config.GetAllowedEmail(),
		Tools:        toolCards(s.registry.Tools()),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("failed to render index page")
		}
	}, nil
}

func toolCards(tools []mcp.Tool) []toolCard {
	cards := make([]toolCard, 0, len(tools))
	for _, t := range tools {
		category, color := toolCategory(t.Name)
		cards = append(cards, toolCard{
			Name:        t.Name,
			Description: t.Description,
			Category:    category,
			Color:       template.CSS(color),
			Params:      toolParams(t.InputSchema),
		})
	}
	return cards
}

func toolCategory(name string) (string, string) {
	switch {
	case strings.Contains(name, "workflow") || strings.HasPrefix(name, "rerun_"):
		return "Actions", "#d29922"
	case strings.Contains(name, "pr_") || strings.Contains(name, "pull_request"):
		return "Pull Requests", "#a371f7"
	case strings.Contains(name, "repo"):
		return "Repositories", "#58a6ff"
	case strings.Contains(name, "issue") || strings.Contains(name, "comment"):
		return "Issues", "#3fb950"
	default:
		return "General", "#8b949e"
	}
}

// toolParams lists required parameters first, in declaration order, then the
// optional ones alphabetically.
func toolParams(schema mcp.InputSchema) []toolParam {
	var optional []string
	for name := range schema.Properties {
		if !slices.Contains(schema.Required, name) {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)

	params := make([]toolParam, 0, len(schema.Properties))
	for _, name := range append(slices.Clone(schema.Required), optional...) {
		prop, ok := schema.Properties[name]
		if !ok {
			continue
		}
		params = append(params, toolParam{
			Name:        name,
			Required:    slices.Contains(schema.Required, name),
			Type:        paramType(prop),
			Description: prop.Description,
		})
	}
	return params
}

func paramType(p mcp.Property) string {
	if len(p.Enum) > 0 {
		quoted := make([]string, len(p.Enum))
		for i, v := range p.Enum {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return strings.Join(quoted, " | ")
	}
	if p.Type == "array" {
		if p.Items != nil && p.Items.Type != "" {
			return p.Items.Type + "[]"
		}
		return "string[]"
	}
	if p.Type == "" {
		return "any"
	}
	return p.Type
}
