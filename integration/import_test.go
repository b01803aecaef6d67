//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	editormcp "github.com/wagiedev/editor-mcp-go"
)

// diskImporter imports scenes as a single object named after the file and
// files as image records. Missing paths fail.
type diskImporter struct {
	store *editormcp.MemoryStore
}

func (i *diskImporter) ImportScene(_ context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	obj := editormcp.NewObject(uuid.NewString(), strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	i.store.PutObjects(obj)

	return obj.ID, nil
}

func (i *diskImporter) ImportFile(_ context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	return i.store.PutRecord(editormcp.Images, &editormcp.Record{ID: uuid.NewString(), Name: filepath.Base(path)})
}

func TestImports(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "level.glb")
	imagePath := filepath.Join(dir, "grass.png")

	require.NoError(t, os.WriteFile(scenePath, []byte("glTF"), 0o600))
	require.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o600))

	store := editormcp.NewMemoryStore()
	store.PutObjects(editormcp.NewObject("world", "World"))

	server := startHost(t, editormcp.WithStore(store), editormcp.WithImporter(&diskImporter{store: store}))
	session := connect(t, server, transports[0].connect)

	text, isErr := callText(t, session, "import_scenes", map[string]any{
		"imports": []any{map[string]any{"path": scenePath, "parentId": "world"}},
	})
	require.False(t, isErr, text)
	require.Contains(t, text, "Imported scene "+scenePath)

	text, isErr = callText(t, session, "import_files", map[string]any{
		"imports": []any{map[string]any{"path": imagePath}},
	})
	require.False(t, isErr, text)
	require.Equal(t, 1, store.Len(editormcp.Images))

	_, isErr = callText(t, session, "import_files", map[string]any{
		"imports": []any{map[string]any{"path": filepath.Join(dir, "missing.png")}},
	})
	require.True(t, isErr)

	var imported *editormcp.Object

	objects, _ := store.List(editormcp.Objects)
	for _, r := range objects {
		if r.ResourceName() == "level" {
			imported = r.(*editormcp.Object)
		}
	}

	require.NotNil(t, imported)
	require.Equal(t, "world", imported.Parent)
}

func TestImportsWithoutImporter(t *testing.T) {
	server := startHost(t)
	session := connect(t, server, transports[1].connect)

	text, isErr := callText(t, session, "import_files", map[string]any{
		"imports": []any{map[string]any{"path": "/tmp/whatever.png"}},
	})
	require.True(t, isErr)
	require.Contains(t, text, editormcp.ErrImporterUnavailable.Error())
}
