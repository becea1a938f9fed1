package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hackvote/internal/domain/ranking"
	"github.com/rpggio/hackvote/internal/domain/stage"
)

const serverInstructions = `hackvote is a client for a hackathon voting contest: projects are ranked by visitors (uv) and, later, by virtual investment.

Core concepts:
- Stage: selection → lock → investment → ended. Only the investment stage accepts investments.
- Ranking: selection/lock rank by uv; investment/ended rank by uv*0.4 + investment*0.6, then investment, then team number.
- Qualified: the top 15 from the lock stage on. Only qualified projects can take investment.
- Investor: logs in with a 4-digit account and a 6-character password; has a fixed budget.

Default workflow:
1) get_stage to learn where the contest is.
2) list_projects to see the qualified queue and the rest.
3) login, then get_investor to see the remaining budget.
4) invest(project_id, amount). Rejections explain themselves via code + recovery_hint.
   A transport failure is never retried; check get_investor before trying again.

State is cached per MCP session; pass refresh=true to reload from the contest API.

Docs:
- hackvote://docs/stages
- hackvote://docs/investing
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "hackvote://docs/stages",
		Name:        "stages",
		Title:       "Contest stages",
		Description: "Schedule and ranking rule of each contest stage.",
		Content:     stagesDoc(),
	},
	{
		URI:         "hackvote://docs/investing",
		Name:        "investing",
		Title:       "Investing",
		Description: "Checks applied to an investment and what each rejection means.",
		Content: fmt.Sprintf(`# Investing

An investment is checked locally, in this order, before anything is sent:

1. PHASE_NOT_INVESTABLE: the stage is not investment.
2. NOT_AUTHENTICATED: nobody is logged in.
3. PROJECT_NOT_FOUND: the id is not in the current ranking.
4. NOT_QUALIFIED: the project is outside the top %d.
5. INVALID_AMOUNT: the amount is not a positive whole number.
6. INSUFFICIENT_BUDGET: the amount exceeds the remaining budget.

Only one submission runs at a time per session; a second one sent meanwhile
comes back with suppressed=true and is not submitted.

After the API accepts an investment the session reloads projects and the
investor. If that reload fails the local result is shown with stale=true.

API_ERROR carries the contest API's own message verbatim. TRANSPORT_FAILURE
means the outcome is unknown; nothing is retried automatically.
`, ranking.QualifiedCount),
	},
}

func stagesDoc() string {
	var b strings.Builder
	b.WriteString("# Contest stages\n")
	for _, s := range stage.All {
		info := s.Info()
		fmt.Fprintf(&b, "\n## %s (%s)\n\n%s\n\n%s\n", info.Name, info.Code, info.Time, info.Rule)
		if info.CanInvest {
			b.WriteString("\nInvestments are open.\n")
		}
	}
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
