//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	editormcp "github.com/wagiedev/editor-mcp-go"
)

// transports lists every client transport the server mounts by default.
var transports = []struct {
	name    string
	connect func(base string) mcpsdk.Transport
}{
	{"sse", func(base string) mcpsdk.Transport {
		return &mcpsdk.SSEClientTransport{Endpoint: base + "/sse"}
	}},
	{"streamable", func(base string) mcpsdk.Transport {
		return &mcpsdk.StreamableClientTransport{Endpoint: base + "/mcp"}
	}},
}

// startHost starts a server on a free port and drains its queue on a
// background ticker until the test ends.
func startHost(t *testing.T, opts ...editormcp.Option) *editormcp.Server {
	t.Helper()

	opts = append([]editormcp.Option{editormcp.WithAddr("127.0.0.1:0")}, opts...)

	server, err := editormcp.New(opts...)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))

	stop := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				server.Drain(0)
			}
		}
	}()

	t.Cleanup(func() {
		close(stop)
		<-stopped

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.NoError(t, server.Shutdown(ctx))
	})

	return server
}

func connect(t *testing.T, server *editormcp.Server, transport func(string) mcpsdk.Transport) *mcpsdk.ClientSession {
	t.Helper()

	// The SSE transport ties its event stream to the connect context, so it
	// must live as long as the session. Individual calls carry their own
	// deadlines.
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "integration", Version: "1.0.0"}, nil)

	session, err := client.Connect(context.Background(), transport("http://"+server.Addr()), nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = session.Close() })

	return session
}

func callText(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text, res.IsError
}
