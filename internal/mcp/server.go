package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vijay-prabhu/incomeadvisor/internal/advisor"
	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/logger"
)

// Server implements an MCP server over stdio
type Server struct {
	db       *database.DB
	advisor  *advisor.Service
	log      logger.Logger
	version  string
	handlers map[string]ToolHandler
}

// ToolHandler is a function that handles a tool call
type ToolHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// JSON-RPC 2.0 types
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	Capabilities    struct {
		Tools     struct{} `json:"tools"`
		Resources struct{} `json:"resources"`
	} `json:"capabilities"`
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type callToolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// New creates a new MCP server
func New(db *database.DB, svc *advisor.Service, log logger.Logger, version string) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Server{
		db:       db,
		advisor:  svc,
		log:      log,
		version:  version,
		handlers: make(map[string]ToolHandler),
	}
	s.registerHandlers()
	return s
}

// Start runs the MCP server on stdio
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC message per line from r and writes responses to w
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		response := s.handleMessage(ctx, line)
		if response != nil {
			output, err := json.Marshal(response)
			if err != nil {
				s.log.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
				continue
			}
			fmt.Fprintln(w, string(output))
		}
	}
}

// JSON-RPC 2.0 error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

func resultResponse(id, result interface{}) *jsonRPCResponse {
	return &jsonRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id interface{}, code int, msg string) *jsonRPCResponse {
	return &jsonRPCResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}}
}

func textResult(text string, isError bool) callToolResult {
	return callToolResult{Content: []contentItem{{Type: "text", Text: text}}, IsError: isError}
}

func (s *Server) handleMessage(ctx context.Context, msg string) *jsonRPCResponse {
	var req jsonRPCRequest
	if err := json.Unmarshal([]byte(msg), &req); err != nil {
		return errorResponse(nil, codeParseError, "Parse error")
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized":
		// notification
		return nil
	case "tools/list":
		return resultResponse(req.ID, toolsListResult{Tools: ToolDefinitions})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return resultResponse(req.ID, resourcesListResult{Resources: ResourceDefinitions})
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "Method not found")
	}
}

func (s *Server) handleInitialize(req jsonRPCRequest) *jsonRPCResponse {
	result := initializeResult{ProtocolVersion: "2024-11-05"}
	result.ServerInfo.Name = "incomeadvisor"
	result.ServerInfo.Version = s.version
	return resultResponse(req.ID, result)
}

func (s *Server) handleToolsCall(ctx context.Context, req jsonRPCRequest) *jsonRPCResponse {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params")
	}

	handler, ok := s.handlers[params.Name]
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	start := time.Now()
	result, err := handler(ctx, params.Arguments)
	fields := map[string]interface{}{"tool": params.Name, "duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		fields["error"] = err.Error()
		s.log.Warn("tool call failed", fields)
		return resultResponse(req.ID, textResult(err.Error(), true))
	}
	s.log.Debug("tool call", fields)

	// strings pass through, everything else is rendered as indented JSON
	text, ok := result.(string)
	if !ok {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return resultResponse(req.ID, textResult("failed to encode result: "+err.Error(), true))
		}
		text = string(b)
	}
	return resultResponse(req.ID, textResult(text, false))
}

func (s *Server) handleResourcesRead(ctx context.Context, req jsonRPCRequest) *jsonRPCResponse {
	var params readResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params")
	}

	text, err := s.handleReadResource(ctx, params.URI)
	if err != nil {
		return errorResponse(req.ID, codeInvalidParams, err.Error())
	}

	return resultResponse(req.ID, readResourceResult{
		Contents: []resourceContent{{URI: params.URI, MimeType: "text/plain", Text: text}},
	})
}
