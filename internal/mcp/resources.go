package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	FactorsURI = "incomeadvisor://factors"
	CatalogURI = "incomeadvisor://catalog"
	SummaryURI = "incomeadvisor://summary"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         FactorsURI,
		Name:        "Factor Catalog",
		Description: "Every context and preference factor with its survey question",
		MimeType:    "text/plain",
	},
	{
		URI:         CatalogURI,
		Name:        "Item Catalog",
		Description: "All income methods and career paths",
		MimeType:    "text/plain",
	},
	{
		URI:         SummaryURI,
		Name:        "Store Summary",
		Description: "Counts of factors, regions, items, users and saved runs",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
