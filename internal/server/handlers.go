package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
	"github.com/ironsheep/receipt-crop/internal/imaging"
	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "receipt_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.WithError(err).WithField("tool", params.Name).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "receipt_crop":
		return s.handleReceiptCrop(args)
	case "receipt_detect":
		return s.handleReceiptDetect(args)
	case "receipt_edge_map":
		return s.handleReceiptEdgeMap(args)
	case "receipt_overlay":
		return s.handleReceiptOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type receiptPathArgs struct {
	Path string `json:"path"`
}

// decodeArgs unmarshals tool arguments; absent arguments leave dst zero.
func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, dst)
}

var errPathRequired = apperrors.NewMissingInputError("path is required")

// === Receipt Handlers ===

type receiptCropArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path,omitempty"`
}

// ReceiptCropResult is returned by receipt_crop.
type ReceiptCropResult struct {
	Report pipeline.Report `json:"report"`

	// OutputPath is set when the JPEG was written to disk.
	OutputPath string `json:"output_path,omitempty"`

	// Image carries the JPEG inline when no output path was given.
	Image *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleReceiptCrop(args json.RawMessage) (interface{}, error) {
	var a receiptCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}

	img, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.pipeline.ProcessImage(img)
	if err != nil {
		return nil, err
	}

	out := &ReceiptCropResult{Report: result.Report}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, result.JPEG, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		out.OutputPath = a.OutputPath

		logger.WithFields(logrus.Fields{
			"path":   a.Path,
			"output": a.OutputPath,
			"method": result.Report.Method,
		}).Info("Receipt written")
		return out, nil
	}

	out.Image = imaging.WrapJPEGBase64(result.JPEG, result.Report.OutputSize.Width, result.Report.OutputSize.Height)
	return out, nil
}

func (s *Server) handleReceiptDetect(args json.RawMessage) (interface{}, error) {
	det, err := s.detect(args)
	if err != nil {
		return nil, err
	}
	return det.Report(), nil
}

// ReceiptImageResult is returned by the tools that render a diagnostic
// image.
type ReceiptImageResult struct {
	Report pipeline.Report       `json:"report"`
	Image  *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleReceiptEdgeMap(args json.RawMessage) (interface{}, error) {
	det, err := s.detect(args)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(det.EdgeMap)
	if err != nil {
		return nil, err
	}
	return &ReceiptImageResult{Report: det.Report(), Image: encoded}, nil
}

func (s *Server) handleReceiptOverlay(args json.RawMessage) (interface{}, error) {
	det, err := s.detect(args)
	if err != nil {
		return nil, err
	}
	overlay, err := det.Overlay()
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(overlay)
	if err != nil {
		return nil, err
	}
	return &ReceiptImageResult{Report: det.Report(), Image: encoded}, nil
}

// detect loads the image named by args and locates the receipt in it.
func (s *Server) detect(args json.RawMessage) (*pipeline.Detection, error) {
	var a receiptPathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	img, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Detect(img)
}
