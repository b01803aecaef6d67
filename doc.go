// Package editormcp exposes a scene graph editor to Model Context Protocol
// clients.
//
// Clients list and read scene resources, and call tools that create, modify
// and import objects. Reads are served directly from the scene store. Tool
// calls that change the scene are validated, queued, and applied only when
// the host drains the queue from the goroutine that owns the scene, so the
// scene is never touched concurrently with the host's own frame.
//
// # Basic Usage
//
// Create a server, start it, and drain the mutation queue once per frame:
//
//	store := editormcp.NewMemoryStore()
//	server, err := editormcp.New(
//	    editormcp.WithStore(store),
//	    editormcp.WithAddr("127.0.0.1:3000"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := server.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Shutdown(context.Background())
//
//	for range time.Tick(16 * time.Millisecond) {
//	    server.Drain(0)
//	}
//
// By default the server mounts the SSE transport at /sse, the streamable
// HTTP transport at /mcp and a JSON health report at /healthz.
//
// # Tools
//
// The server registers create_object, modify_objects, query_resources,
// import_scenes and import_files. Resources are addressed as type://id, for
// example objects://3f2c... or textures://grass.
//
// Only query_resources runs without the host tick. The others block until
// the host applies them. Use WithMutationTimeout to bound that wait and
// WithQueueOrder to choose between FIFO and LIFO application.
//
// # Importing
//
// import_scenes and import_files delegate to an Importer supplied with
// WithImporter. Without one they fail with ErrImporterUnavailable.
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	server, err := editormcp.New(editormcp.WithLogger(logger))
//
// # Configuration Files
//
// Settings can also come from YAML:
//
//	fileOpt, err := editormcp.LoadConfigFile("editor.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server, err := editormcp.New(fileOpt, editormcp.WithStore(store))
//
// # Error Handling
//
// Invalid arguments and unknown tools are reported to clients as JSON-RPC
// invalid params errors and never reach the queue. A mutation that fails on
// the host tick becomes a tool result with isError set. The Go API returns
// typed errors:
//
//	if err := server.Start(ctx); err != nil {
//	    if tErr, ok := errors.AsType[*editormcp.TransportError](err); ok {
//	        log.Fatalf("cannot serve (%s): %v", tErr.Op, tErr.Err)
//	    }
//	    log.Fatal(err)
//	}
package editormcp
