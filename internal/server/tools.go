package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathSchema is the input schema shared by the single-argument tools.
func pathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the receipt photograph",
			},
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "receipt_crop",
			Description: "Find the receipt in a photograph, correct its perspective and return it as a 600px wide JPEG. " +
				"When output_path is given the JPEG is written there instead of being returned inline. " +
				"The report tells whether the receipt outline was found (perspective), only its rough region (fallback), or nothing (passthrough).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the receipt photograph",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the JPEG to",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "receipt_detect",
			Description: "Locate the receipt in a photograph without producing an image. Returns the detection method, corner coordinates, score and contour counts.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "receipt_edge_map",
			Description: "Return the binary edge map used for receipt detection as a base64-encoded PNG. Useful to see why a receipt was or was not found.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "receipt_overlay",
			Description: "Return the photograph as a base64-encoded PNG with the detected receipt outline drawn on it: green for a rectified outline, orange for a fallback crop box.",
			InputSchema: pathSchema(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
