package dispatch

import (
	"encoding/json"

	"github.com/wagiedev/editor-mcp-go/internal/tools"
)

// Kind identifies the request handled by the dispatcher.
type Kind string

// Request kinds.
const (
	KindListResources Kind = "list_resources"
	KindReadResource  Kind = "read_resource"
	KindListTools     Kind = "list_tools"
	KindListPrompts   Kind = "list_prompts"
	KindGetPrompt     Kind = "get_prompt"
	KindCallTool      Kind = "call_tool"
)

// MIMEType is the content type of every resource body.
const MIMEType = "application/json"

// Request is a transport-neutral protocol request.
type Request struct {
	Kind Kind
	// Name is the tool or prompt name.
	Name string
	// URI is the resource to read.
	URI       string
	Arguments json.RawMessage
}

// Response carries the result of a Request. Exactly one payload field is
// set unless Err is non-nil.
type Response struct {
	Resources []ResourceDescriptor
	Contents  []ResourceContents
	Tools     []tools.Descriptor
	Prompts   []PromptDescriptor
	Prompt    *PromptResult
	Result    *ToolResult
	Err       error
}

// ResourceDescriptor is a listing entry of a resource.
type ResourceDescriptor struct {
	URI         string
	Name        string
	MIMEType    string
	Description string
}

// ResourceContents is the body of a read resource.
type ResourceContents struct {
	URI      string
	MIMEType string
	Text     string
}

// PromptDescriptor describes an available prompt.
type PromptDescriptor struct {
	Name        string
	Description string
}

// PromptMessage is one message of a rendered prompt.
type PromptMessage struct {
	Role string
	Text string
}

// PromptResult is a rendered prompt.
type PromptResult struct {
	Description string
	Messages    []PromptMessage
}

// ToolResult is the successful outcome of a tool call.
type ToolResult struct {
	Text string
}
