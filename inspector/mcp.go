package inspector

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/locscope/kit"
)

// RegisterMCP registers the locscope tools on an MCP server.
func (in *Inspector) RegisterMCP(srv *mcp.Server) {
	source := map[string]any{
		"html": map[string]any{"type": "string", "description": "HTML document to analyse"},
		"url":  map[string]any{"type": "string", "description": "Page URL; captured live in Chrome when html is empty"},
	}
	element := map[string]any{
		"html":      source["html"],
		"url":       source["url"],
		"target":    map[string]any{"type": "string", "description": "CSS selector, or XPath when starting with / or ("},
		"framework": map[string]any{"type": "string", "enum": []string{"playwright", "selenium"}, "description": "Code flavour (default playwright)"},
	}

	tools := []struct {
		name, desc string
		props      map[string]any
		required   []string
	}{
		{"locscope_report", "Rank stable locators for one element and describe it (geometry, visibility, ARIA ancestry, snippet, code).", element, []string{"target"}},
		{"locscope_tree", "Serialize the document structure as a JSON tree.", source, nil},
		{"locscope_aria", "List the accessibility-relevant elements of the document.", source, nil},
		{"locscope_emit", "Render every ranked locator of one element as Playwright or Selenium code.", element, []string{"target"}},
	}
	ops := map[string]string{
		"locscope_report": "report",
		"locscope_tree":   "tree",
		"locscope_aria":   "aria",
		"locscope_emit":   "emit",
	}

	for _, t := range tools {
		tool := &mcp.Tool{
			Name:        t.name,
			Description: t.desc,
			InputSchema: inputSchema(t.props, t.required),
		}
		kit.RegisterMCPTool(srv, tool, in.endpoints[ops[t.name]], decodeRequest)
	}
}

func decodeRequest(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r Request
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
