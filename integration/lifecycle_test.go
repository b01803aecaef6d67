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

// TestShutdownWithOpenSessions checks that long-lived SSE streams do not keep
// Shutdown from returning and that the address can be bound again.
func TestShutdownWithOpenSessions(t *testing.T) {
	server, err := editormcp.New(editormcp.WithAddr("127.0.0.1:0"))
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))

	addr := server.Addr()

	for _, tt := range transports {
		client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: tt.name, Version: "1.0.0"}, nil)

		session, err := client.Connect(context.Background(), tt.connect("http://"+addr), nil)
		require.NoError(t, err)

		t.Cleanup(func() { _ = session.Close() })
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, server.Shutdown(ctx))
	require.Less(t, time.Since(start), 5*time.Second)

	again := startHost(t, editormcp.WithAddr(addr))
	require.Equal(t, addr, again.Addr())
}

// TestMutationTimeoutWithdraws checks that a call the host never drains
// fails with a timeout and leaves nothing queued.
func TestMutationTimeoutWithdraws(t *testing.T) {
	server, err := editormcp.New(
		editormcp.WithAddr("127.0.0.1:0"),
		editormcp.WithMutationTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))

	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	session := connect(t, server, transports[1].connect)

	text, isErr := callText(t, session, "create_object", map[string]any{
		"name":     "Late",
		"position": []float64{0, 0, 0},
	})
	require.True(t, isErr)
	require.Contains(t, text, editormcp.ErrMutationTimeout.Error())
	require.Equal(t, 0, server.Pending())
}
