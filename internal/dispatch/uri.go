package dispatch

import (
	"strings"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

const uriSeparator = "://"

// FormatURI returns the resource URI "type://id".
func FormatURI(t scene.ResourceType, id string) string {
	return string(t) + uriSeparator + id
}

// ParseURI splits a "type://id" resource URI. The type is not checked
// against the registry here.
func ParseURI(uri string) (scene.ResourceType, string, error) {
	t, id, ok := strings.Cut(uri, uriSeparator)
	if !ok || t == "" || id == "" {
		return "", "", &errors.NotFoundError{Kind: "resource", ID: uri}
	}

	return scene.ResourceType(t), id, nil
}
