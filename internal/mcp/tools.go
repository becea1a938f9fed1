package mcp

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var refreshProperty = map[string]any{
	"refresh": map[string]any{
		"type":        "boolean",
		"description": "Reload from the contest API before answering (default: use cached state)",
	},
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "get_stage",
			Description: "Get the current contest stage with its rules and whether investing is open",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": refreshProperty,
			},
		},
		{
			Name:        "list_projects",
			Description: "List projects ranked for the current stage, split into the qualified top 15 and the rest",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": refreshProperty,
			},
		},
		{
			Name:        "get_project",
			Description: "Get one project with its rank, investment records and whether it can take investment now",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "integer",
						"description": "Project ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "login",
			Description: "Log in as an investor",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"username": map[string]any{
						"type":        "string",
						"description": "Four-digit investor account",
					},
					"password": map[string]any{
						"type":        "string",
						"description": "Six lowercase letters or digits",
					},
				},
				"required": []string{"username", "password"},
			},
		},
		{
			Name:        "logout",
			Description: "Forget the logged-in investor for this session",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_investor",
			Description: "Get the logged-in investor's budget and investment history",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": refreshProperty,
			},
		},
		{
			Name:        "invest",
			Description: "Invest part of the remaining budget in a qualified project. Only allowed during the investment stage",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "integer",
						"description": "Project ID",
					},
					"amount": map[string]any{
						"type":        "number",
						"description": "Whole amount to invest, at most the remaining budget",
					},
				},
				"required": []string{"project_id", "amount"},
			},
		},
	}
}
