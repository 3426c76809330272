package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	handleProperty = map[string]interface{}{
		"type":        "string",
		"description": "User handle (case-insensitive)",
	}
	kindProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"income", "career"},
		"description": "Catalog: income methods or career paths (default: income)",
	}
	modeProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"self_rating", "preference"},
		"description": "Scoring strategy (default: configured mode)",
	}
)

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "list_factors",
		Description: "List the factor catalog. Context factors are 0..10 self-ratings; preference factors are 1..5 importance levels named after item criteria.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"context", "preference"},
					"description": "Only list factors of this kind",
				},
			},
		},
	},
	{
		Name:        "list_catalog",
		Description: "List income methods or career paths with their criteria.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": kindProperty,
			},
		},
	},
	{
		Name:        "get_catalog_item",
		Description: "Get one catalog item with its criteria and derived complexity and needed time.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": kindProperty,
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Item id",
				},
			},
			"required": []string{"id"},
		},
	},
	{
		Name:        "recommend",
		Description: "Rank a catalog for a user, best first. Ties are broken by item id.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"handle": handleProperty,
				"mode":   modeProperty,
				"kind":   kindProperty,
				"top_n": map[string]interface{}{
					"type":        "integer",
					"description": "Number of items to return (default: configured top_n)",
				},
				"no_save": map[string]interface{}{
					"type":        "boolean",
					"description": "Do not store the run in the user's history",
				},
			},
			"required": []string{"handle"},
		},
	},
	{
		Name:        "explain_score",
		Description: "Show every term that makes up one item's score for a user.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"handle": handleProperty,
				"mode":   modeProperty,
				"kind":   kindProperty,
				"item_id": map[string]interface{}{
					"type":        "integer",
					"description": "Item id",
				},
			},
			"required": []string{"handle", "item_id"},
		},
	},
	{
		Name:        "set_factor",
		Description: "Store a 0..10 self-rating for one of the factors f1_motivation .. f9_resource_access.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"handle": handleProperty,
				"factor": map[string]interface{}{
					"type":        "string",
					"description": "Factor name, e.g. f1_motivation",
				},
				"value": map[string]interface{}{
					"type":        "number",
					"minimum":     0,
					"maximum":     10,
					"description": "Self-rating",
				},
			},
			"required": []string{"handle", "factor", "value"},
		},
	},
	{
		Name:        "set_preference",
		Description: "Store how important a criterion is to a user (1..5 or its label).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"handle": handleProperty,
				"factor": map[string]interface{}{
					"type":        "string",
					"description": "Preference factor name, e.g. income_potential",
				},
				"level": map[string]interface{}{
					"type":        "string",
					"description": "1..5, or Doesn't matter / Slightly important / Moderately important / Important / Very important",
				},
			},
			"required": []string{"handle", "factor", "level"},
		},
	},
	{
		Name:        "get_history",
		Description: "List a user's saved recommendation runs, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"handle": handleProperty,
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs (default: 10)",
				},
			},
			"required": []string{"handle"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Count factors, regions, catalog items, users and saved runs.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
}
