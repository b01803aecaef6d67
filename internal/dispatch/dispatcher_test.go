package dispatch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/queue"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
	"github.com/wagiedev/editor-mcp-go/internal/tools"
)

// fakeImporter creates one object per imported scene.
type fakeImporter struct {
	store *scene.MemoryStore
	files []string
	count int
}

func (f *fakeImporter) ImportScene(_ context.Context, path string) (string, error) {
	if path == "broken.glb" {
		return "", stderrors.New("unsupported file")
	}

	f.count++
	id := fmt.Sprintf("scene-%d", f.count)
	f.store.PutObjects(scene.NewObject(id, path))

	return id, nil
}

func (f *fakeImporter) ImportFile(_ context.Context, path string) error {
	if path == "broken.glb" {
		return stderrors.New("unsupported file")
	}

	f.files = append(f.files, path)

	return nil
}

type harness struct {
	d        *Dispatcher
	q        *queue.Queue
	store    *scene.MemoryStore
	importer *fakeImporter
}

func newHarness(t *testing.T, qopts queue.Options, opts Options) *harness {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	store := scene.NewMemoryStore()
	q := queue.New(log, qopts)

	t.Cleanup(q.Close)

	if opts.NewID == nil {
		n := 0
		opts.NewID = func() string {
			n++

			return fmt.Sprintf("id-%d", n)
		}
	}

	d, err := New(log, store, q, opts)
	require.NoError(t, err)

	return &harness{d: d, q: q, store: store, importer: &fakeImporter{store: store}}
}

type callOutcome struct {
	result *ToolResult
	err    error
}

// callAsync issues a tool call on its own goroutine, like a transport would.
func (h *harness) callAsync(name, args string) <-chan callOutcome {
	ch := make(chan callOutcome, 1)

	go func() {
		res, err := h.d.CallTool(context.Background(), name, json.RawMessage(args))
		ch <- callOutcome{result: res, err: err}
	}()

	return ch
}

// call issues a tool call and plays the host tick until it returns.
func (h *harness) call(t *testing.T, name, args string) (*ToolResult, error) {
	t.Helper()

	ch := h.callAsync(name, args)
	deadline := time.After(5 * time.Second)

	for {
		select {
		case out := <-ch:
			return out.result, out.err
		case <-deadline:
			t.Fatalf("%s did not complete", name)

			return nil, nil
		case <-time.After(time.Millisecond):
			h.q.Drain(0)
		}
	}
}

func (h *harness) waitQueued(t *testing.T, n int) {
	t.Helper()

	require.Eventually(t, func() bool { return h.q.Len() == n }, 5*time.Second, time.Millisecond)
}

func (h *harness) object(t *testing.T, id string) *scene.Object {
	t.Helper()

	obj, ok := h.store.Object(id)
	require.True(t, ok, "object %s not found", id)

	return obj
}

func requireExecutionError(t *testing.T, err error) *errors.ExecutionError {
	t.Helper()

	execErr, ok := stderrors.AsType[*errors.ExecutionError](err)
	require.True(t, ok, "expected ExecutionError, got %v", err)

	return execErr
}

func TestCreateObject(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	res, err := h.call(t, tools.CreateObject, `{"name":"Box","position":[1,2,3]}`)
	require.NoError(t, err)
	require.Equal(t, "Created object id-1: Box", res.Text)

	obj := h.object(t, "id-1")
	require.Equal(t, "Box", obj.Name)
	require.Equal(t, scene.Vec3{1, 2, 3}, obj.Translation)
	require.Equal(t, scene.IdentityRotation, obj.Rotation)
	require.Equal(t, scene.UnitScale, obj.Scaling)
}

func TestCreateObject_DefaultIDsAreUUIDs(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	d, err := New(slog.New(slog.DiscardHandler), h.store, h.q, Options{})
	require.NoError(t, err)

	h.d = d

	res, err := h.call(t, tools.CreateObject, `{"name":"Box","position":[0,0,0]}`)
	require.NoError(t, err)
	require.Regexp(t, `^Created object [0-9a-f-]{36}: Box$`, res.Text)
}

func TestCallTool_InvalidArgumentsNeverEnqueue(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	_, err := h.d.CallTool(context.Background(), tools.CreateObject, json.RawMessage(`{"name":"Box","position":[1,2]}`))

	verr, ok := stderrors.AsType[*errors.ValidationError](err)
	require.True(t, ok)
	require.Equal(t, tools.CreateObject, verr.Tool)
	require.Equal(t, 0, h.q.Len())
	require.Equal(t, 0, h.store.Len(scene.Objects))
}

func TestCallTool_UnknownToolCheckedFirst(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	_, err := h.d.CallTool(context.Background(), "delete_everything", json.RawMessage(`not json`))

	_, ok := stderrors.AsType[*errors.UnknownToolError](err)
	require.True(t, ok)
	require.Equal(t, 0, h.q.Len())
}

func TestQueryResources_RunsWithoutHostTick(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.store.PutObjects(
		scene.NewObject("1", "Box"),
		scene.NewObject("2", "OldBox"),
		scene.NewObject("3", "Sphere"),
	)

	// No drain: query must not depend on the host.
	res, err := h.d.CallTool(context.Background(), tools.QueryResources,
		json.RawMessage(`{"resourceType":"objects","includeFilter":{"name":"Box"},"excludeFilter":{"name":"Old"}}`))
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Text), &out))
	require.Len(t, out, 1)
	require.Equal(t, "Box", out[0]["name"])
}

func TestModifyObjects_PartialUpdate(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	obj := scene.NewObject("o1", "Box")
	obj.Translation = scene.Vec3{1, 1, 1}
	h.store.PutObjects(obj)

	res, err := h.call(t, tools.ModifyObjects, `{"modifications":[{"id":"o1","scaling":[2,2,2]}]}`)
	require.NoError(t, err)
	require.Equal(t, "Modified object o1: Box", res.Text)

	got := h.object(t, "o1")
	require.Equal(t, "Box", got.Name)
	require.Equal(t, scene.Vec3{1, 1, 1}, got.Translation)
	require.Equal(t, scene.IdentityRotation, got.Rotation)
	require.Equal(t, scene.Vec3{2, 2, 2}, got.Scaling)
}

func TestModifyObjects_CreatesWithoutID(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	res, err := h.call(t, tools.ModifyObjects, `{"modifications":[
		{"name":"Parent"},
		{"name":"Child","parentId":"id-1"}
	]}`)
	require.NoError(t, err)
	require.Equal(t, "Created object id-1: Parent\nCreated object id-2: Child", res.Text)

	require.Equal(t, "id-1", h.object(t, "id-2").Parent)
}

func TestModifyObjects_RemoveComponentsDescending(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	obj := scene.NewObject("o1", "Box")
	for _, kind := range []string{"a", "b", "c"} {
		c, err := scene.NewComponent(kind, nil)
		require.NoError(t, err)

		obj.Components = append(obj.Components, c)
	}

	h.store.PutObjects(obj)

	_, err := h.call(t, tools.ModifyObjects, `{"modifications":[{"id":"o1","removeComponents":[0,2]}]}`)
	require.NoError(t, err)

	got := h.object(t, "o1")
	require.Len(t, got.Components, 1)
	require.Equal(t, "b", got.Components[0].Type)
}

func TestModifyObjects_ComponentEditOrder(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	obj := scene.NewObject("o1", "Sign")

	text, err := scene.NewComponent(scene.KindText, map[string]any{"text": "old"})
	require.NoError(t, err)

	marker, err := scene.NewComponent("marker", nil)
	require.NoError(t, err)

	obj.Components = []scene.Component{marker, text}
	h.store.PutObjects(obj)

	// Indices refer to the list before this entry: modify 1, remove 0, then append.
	_, err = h.call(t, tools.ModifyObjects, `{"modifications":[{
		"id":"o1",
		"modifyComponents":[{"index":1,"properties":{"text":"new"}}],
		"removeComponents":[0],
		"addComponents":[{"type":"mesh","properties":{"mesh":"m1"}}]
	}]}`)
	require.NoError(t, err)

	got := h.object(t, "o1")
	require.Len(t, got.Components, 2)
	require.Equal(t, scene.KindText, got.Components[0].Type)
	require.Equal(t, "new", got.Components[0].Text.Text)
	require.Equal(t, scene.KindMesh, got.Components[1].Type)
	require.Equal(t, "m1", got.Components[1].Mesh.Mesh)
}

func TestModifyObjects_BatchIsAtomic(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.store.PutObjects(scene.NewObject("o1", "Box"))

	_, err := h.call(t, tools.ModifyObjects, `{"modifications":[
		{"id":"o1","name":"Renamed"},
		{"name":"New"},
		{"id":"missing","name":"Nope"}
	]}`)

	execErr := requireExecutionError(t, err)
	require.Equal(t, tools.ModifyObjects, execErr.Mutation)

	nf, ok := stderrors.AsType[*errors.NotFoundError](err)
	require.True(t, ok)
	require.Equal(t, "missing", nf.ID)

	require.Equal(t, "Box", h.object(t, "o1").Name)
	require.Equal(t, 1, h.store.Len(scene.Objects))
}

func TestModifyObjects_ParentRules(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		wantErr string
	}{
		{
			name:    "self",
			args:    `{"modifications":[{"id":"o1","parentId":"o1"}]}`,
			wantErr: "own parent",
		},
		{
			name:    "unknown parent",
			args:    `{"modifications":[{"id":"o1","parentId":"ghost"}]}`,
			wantErr: `parent object "ghost" not found`,
		},
		{
			name:    "component index out of range",
			args:    `{"modifications":[{"id":"o1","removeComponents":[3]}]}`,
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, queue.Options{}, Options{})
			h.store.PutObjects(scene.NewObject("o1", "Box"))

			_, err := h.call(t, tools.ModifyObjects, tt.args)
			requireExecutionError(t, err)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestModifyObjects_Unparent(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	child := scene.NewObject("c", "Child")
	child.Parent = "p"
	h.store.PutObjects(scene.NewObject("p", "Parent"), child)

	_, err := h.call(t, tools.ModifyObjects, `{"modifications":[{"id":"c","parentId":""}]}`)
	require.NoError(t, err)
	require.Empty(t, h.object(t, "c").Parent)
}

func TestMutations_SeeStateAtExecutionTime(t *testing.T) {
	// LIFO drains B before A, so B cannot see the object A will create.
	h := newHarness(t, queue.Options{Order: queue.OrderLIFO}, Options{})

	a := h.callAsync(tools.CreateObject, `{"name":"Foo","position":[0,0,0]}`)
	h.waitQueued(t, 1)

	b := h.callAsync(tools.ModifyObjects, `{"modifications":[{"id":"id-1","name":"Bar"}]}`)
	h.waitQueued(t, 2)

	require.Equal(t, 2, h.q.Drain(0))

	outB := <-b
	requireExecutionError(t, outB.err)

	outA := <-a
	require.NoError(t, outA.err)
	require.Equal(t, "Foo", h.object(t, "id-1").Name)
}

func TestImportScenes(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.d.importer = h.importer
	h.store.PutObjects(scene.NewObject("level", "Level"))

	res, err := h.call(t, tools.ImportScenes, `{"imports":[{"path":"tree.glb","parentId":"level"},{"path":"rock.glb"}]}`)
	require.NoError(t, err)
	require.Equal(t, "Imported scene tree.glb as scene-1\nImported scene rock.glb as scene-2", res.Text)

	require.Equal(t, "level", h.object(t, "scene-1").Parent)
	require.Empty(t, h.object(t, "scene-2").Parent)
}

func TestImportScenes_Failures(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	_, err := h.call(t, tools.ImportScenes, `{"imports":[{"path":"tree.glb"}]}`)
	require.ErrorIs(t, err, errors.ErrImporterUnavailable)
	requireExecutionError(t, err)

	h.d.importer = h.importer

	_, err = h.call(t, tools.ImportScenes, `{"imports":[{"path":"tree.glb","parentId":"ghost"}]}`)
	require.ErrorContains(t, err, "ghost")
	require.Equal(t, 0, h.importer.count, "nothing is imported when the parent is missing")

	_, err = h.call(t, tools.ImportScenes, `{"imports":[{"path":"broken.glb"}]}`)
	require.ErrorContains(t, err, "unsupported file")
}

func TestImportFiles(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.d.importer = h.importer

	res, err := h.call(t, tools.ImportFiles, `{"imports":[{"path":"a.png"},{"path":"b.png"}]}`)
	require.NoError(t, err)
	require.Equal(t, "Imported file a.png\nImported file b.png", res.Text)
	require.Equal(t, []string{"a.png", "b.png"}, h.importer.files)
}

func TestCallTool_MutationTimeoutWithdraws(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{MutationTimeout: 20 * time.Millisecond})

	// Nobody drains.
	_, err := h.d.CallTool(context.Background(), tools.CreateObject, json.RawMessage(`{"name":"Box","position":[0,0,0]}`))
	require.ErrorIs(t, err, errors.ErrMutationTimeout)
	require.Equal(t, 0, h.q.Len())

	h.q.Drain(0)
	require.Equal(t, 0, h.store.Len(scene.Objects))
}

func TestCallTool_QueueClosed(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.q.Close()

	_, err := h.d.CallTool(context.Background(), tools.CreateObject, json.RawMessage(`{"name":"Box","position":[0,0,0]}`))
	require.ErrorIs(t, err, errors.ErrQueueClosed)
}

func TestCallTool_RateLimited(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)})

	_, err := h.call(t, tools.CreateObject, `{"name":"First","position":[0,0,0]}`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = h.d.CallTool(ctx, tools.CreateObject, json.RawMessage(`{"name":"Second","position":[0,0,0]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	require.Equal(t, 0, h.q.Len())
}

func TestCallTool_MutationTimeoutCoversRateLimit(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{
		Limiter:         rate.NewLimiter(rate.Every(time.Hour), 1),
		MutationTimeout: 200 * time.Millisecond,
	})

	_, err := h.call(t, tools.CreateObject, `{"name":"First","position":[0,0,0]}`)
	require.NoError(t, err)

	start := time.Now()
	_, err = h.d.CallTool(context.Background(), tools.CreateObject, json.RawMessage(`{"name":"Second","position":[0,0,0]}`))
	require.ErrorIs(t, err, errors.ErrMutationTimeout)
	require.Less(t, time.Since(start), 5*time.Second)
	require.Equal(t, 0, h.q.Len())
}

func TestListAndReadResources(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.store.PutObjects(scene.NewObject("o1", "Camera"))
	require.NoError(t, h.store.PutRecord(scene.Materials, &scene.Record{ID: "m1", Name: "Steel"}))

	list := h.d.ListResources()
	require.Equal(t, []ResourceDescriptor{
		{URI: "objects://o1", Name: "Camera", MIMEType: MIMEType, Description: "objects resource: Camera"},
		{URI: "materials://m1", Name: "Steel", MIMEType: MIMEType, Description: "materials resource: Steel"},
	}, list)

	contents, err := h.d.ReadResource("objects://o1")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	require.Equal(t, "objects://o1", contents[0].URI)

	var obj scene.Object
	require.NoError(t, json.Unmarshal([]byte(contents[0].Text), &obj))
	require.Equal(t, "Camera", obj.Name)
}

func TestReadResource_NotFound(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})

	for _, uri := range []string{"objects://missing", "notes://1", "not-a-uri", "objects://"} {
		_, err := h.d.ReadResource(uri)

		_, ok := stderrors.AsType[*errors.NotFoundError](err)
		require.True(t, ok, "uri %q: %v", uri, err)
	}
}

func TestPrompts(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.store.PutObjects(scene.NewObject("o1", "Camera"))

	require.Equal(t, SummarizeScene, h.d.ListPrompts()[0].Name)

	prompt, err := h.d.GetPrompt(SummarizeScene)
	require.NoError(t, err)
	require.Len(t, prompt.Messages, 1)
	require.Contains(t, prompt.Messages[0].Text, "- Camera (objects://o1)")

	_, err = h.d.GetPrompt("summarize_notes")
	require.Error(t, err)
}

func TestHandle_RoutesByKind(t *testing.T) {
	h := newHarness(t, queue.Options{}, Options{})
	h.store.PutObjects(scene.NewObject("o1", "Camera"))
	ctx := context.Background()

	require.Len(t, h.d.Handle(ctx, Request{Kind: KindListResources}).Resources, 1)
	require.Len(t, h.d.Handle(ctx, Request{Kind: KindReadResource, URI: "objects://o1"}).Contents, 1)
	require.Len(t, h.d.Handle(ctx, Request{Kind: KindListTools}).Tools, 5)
	require.Len(t, h.d.Handle(ctx, Request{Kind: KindListPrompts}).Prompts, 1)
	require.NotNil(t, h.d.Handle(ctx, Request{Kind: KindGetPrompt, Name: SummarizeScene}).Prompt)

	resp := h.d.Handle(ctx, Request{
		Kind:      KindCallTool,
		Name:      tools.QueryResources,
		Arguments: json.RawMessage(`{"resourceType":"objects","ids":["o1"]}`),
	})
	require.NoError(t, resp.Err)
	require.Contains(t, resp.Result.Text, "Camera")

	require.Error(t, h.d.Handle(ctx, Request{Kind: "subscribe"}).Err)
}

func TestURI(t *testing.T) {
	require.Equal(t, "meshes://abc", FormatURI(scene.Meshes, "abc"))

	rt, id, err := ParseURI("particleEffects://p-1")
	require.NoError(t, err)
	require.Equal(t, scene.ParticleEffects, rt)
	require.Equal(t, "p-1", id)
}
