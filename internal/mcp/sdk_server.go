package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/editor-mcp-go/internal/dispatch"
	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

const methodListResources = "resources/list"

// Dispatcher answers transport-neutral requests.
type Dispatcher interface {
	Handle(ctx context.Context, req dispatch.Request) dispatch.Response
}

// SDKServer exposes a Dispatcher through the official MCP SDK server.
//
// Tools and prompts are registered once from the dispatcher's static
// descriptors. Resources change at runtime, so reads go through one URI
// template per resource type and resources/list is answered by middleware.
type SDKServer struct {
	log        *slog.Logger
	name       string
	version    string
	dispatcher Dispatcher
	server     *mcp.Server
}

// NewSDKServer creates the MCP server for d.
func NewSDKServer(log *slog.Logger, name, version string, d Dispatcher) *SDKServer {
	s := &SDKServer{
		log:        log.With("component", "mcp"),
		name:       name,
		version:    version,
		dispatcher: d,
	}

	s.server = mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, &mcp.ServerOptions{
		Logger: log,
		Capabilities: &mcp.ServerCapabilities{
			Tools:     &mcp.ToolCapabilities{},
			Resources: &mcp.ResourceCapabilities{},
			Prompts:   &mcp.PromptCapabilities{},
		},
	})

	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	s.server.AddReceivingMiddleware(s.listResourcesMiddleware)

	return s
}

// Name returns the server name.
func (s *SDKServer) Name() string {
	return s.name
}

// Version returns the server version.
func (s *SDKServer) Version() string {
	return s.version
}

// Server returns the underlying SDK server, e.g. to connect it to a custom transport.
func (s *SDKServer) Server() *mcp.Server {
	return s.server
}

// Connect serves one session over t until the session ends.
func (s *SDKServer) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// SessionCount returns the number of connected sessions.
func (s *SDKServer) SessionCount() int {
	n := 0
	for range s.server.Sessions() {
		n++
	}

	return n
}

// CloseSessions closes every connected session. Long-lived SSE streams only
// end once their session is closed.
func (s *SDKServer) CloseSessions() {
	for ss := range s.server.Sessions() {
		if err := ss.Close(); err != nil {
			s.log.Debug("Failed to close session", "session", ss.ID(), "error", err)
		}
	}
}

func (s *SDKServer) registerTools() {
	resp := s.dispatcher.Handle(context.Background(), dispatch.Request{Kind: dispatch.KindListTools})

	for _, d := range resp.Tools {
		s.server.AddTool(NewTool(d.Name, d.Description, d.InputSchema), s.callTool)
	}
}

func (s *SDKServer) registerResources() {
	for _, t := range scene.ResourceTypes {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			Name:        string(t),
			URITemplate: string(t) + "://{id}",
			MIMEType:    dispatch.MIMEType,
			Description: fmt.Sprintf("A resource of the %s collection", t),
		}, s.readResource)
	}
}

func (s *SDKServer) registerPrompts() {
	resp := s.dispatcher.Handle(context.Background(), dispatch.Request{Kind: dispatch.KindListPrompts})

	for _, p := range resp.Prompts {
		s.server.AddPrompt(&mcp.Prompt{Name: p.Name, Description: p.Description}, s.getPrompt)
	}
}

func (s *SDKServer) callTool(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := s.dispatcher.Handle(ctx, dispatch.Request{
		Kind:      dispatch.KindCallTool,
		Name:      req.Params.Name,
		Arguments: req.Params.Arguments,
	})
	if resp.Err != nil {
		return toolError(resp.Err)
	}

	return TextResult(resp.Result.Text), nil
}

// toolError maps dispatcher errors: bad requests become JSON-RPC invalid
// params, everything else a tool result flagged as error.
func toolError(err error) (*mcp.CallToolResult, error) {
	if _, ok := stderrors.AsType[*errors.ValidationError](err); ok {
		return nil, invalidParams(err)
	}

	if _, ok := stderrors.AsType[*errors.UnknownToolError](err); ok {
		return nil, invalidParams(err)
	}

	return ErrorResult(err.Error()), nil
}

func invalidParams(err error) error {
	wire := &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}

	if verr, ok := stderrors.AsType[*errors.ValidationError](err); ok {
		if data, mErr := json.Marshal(map[string]any{"violations": verr.Violations}); mErr == nil {
			wire.Data = data
		}
	}

	return wire
}

func (s *SDKServer) readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	resp := s.dispatcher.Handle(ctx, dispatch.Request{Kind: dispatch.KindReadResource, URI: uri})
	if resp.Err != nil {
		if _, ok := stderrors.AsType[*errors.NotFoundError](resp.Err); ok {
			return nil, mcp.ResourceNotFoundError(uri)
		}

		return nil, resp.Err
	}

	contents := make([]*mcp.ResourceContents, 0, len(resp.Contents))
	for _, c := range resp.Contents {
		contents = append(contents, &mcp.ResourceContents{URI: c.URI, MIMEType: c.MIMEType, Text: c.Text})
	}

	return &mcp.ReadResourceResult{Contents: contents}, nil
}

func (s *SDKServer) getPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	resp := s.dispatcher.Handle(ctx, dispatch.Request{Kind: dispatch.KindGetPrompt, Name: req.Params.Name})
	if resp.Err != nil {
		if _, ok := stderrors.AsType[*errors.NotFoundError](resp.Err); ok {
			return nil, invalidParams(resp.Err)
		}

		return nil, resp.Err
	}

	messages := make([]*mcp.PromptMessage, 0, len(resp.Prompt.Messages))
	for _, m := range resp.Prompt.Messages {
		messages = append(messages, &mcp.PromptMessage{
			Role:    mcp.Role(m.Role),
			Content: &mcp.TextContent{Text: m.Text},
		})
	}

	return &mcp.GetPromptResult{Description: resp.Prompt.Description, Messages: messages}, nil
}

// listResourcesMiddleware answers resources/list from the live registry
// instead of the SDK's static resource list.
func (s *SDKServer) listResourcesMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method != methodListResources {
			return next(ctx, method, req)
		}

		resp := s.dispatcher.Handle(ctx, dispatch.Request{Kind: dispatch.KindListResources})
		if resp.Err != nil {
			return nil, resp.Err
		}

		resources := make([]*mcp.Resource, 0, len(resp.Resources))
		for _, r := range resp.Resources {
			resources = append(resources, &mcp.Resource{
				URI:         r.URI,
				Name:        r.Name,
				MIMEType:    r.MIMEType,
				Description: r.Description,
			})
		}

		s.log.Debug("Listed resources", "count", len(resources))

		return &mcp.ListResourcesResult{Resources: resources}, nil
	}
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// NewTool creates an mcp.Tool with the given parameters.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}
