package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"price-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalObjectStorePutGet(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.CreateBucket(ctx, "experiments"))
	require.NoError(t, store.PutObject(ctx, "experiments", "runs/abc/model.json", strings.NewReader(`{"fitted":true}`)))

	reader, err := store.GetObject(ctx, "experiments", "runs/abc/model.json")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `{"fitted":true}`, string(data))
}

func TestLocalObjectStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetObject(ctx, "experiments", "runs/missing/model.json")
	assert.Error(t, err)
}

func TestLocalObjectStoreList(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutObject(ctx, "experiments", "runs/a/model.json", strings.NewReader("m")))
	require.NoError(t, store.PutObject(ctx, "experiments", "runs/a/preprocessor.json", strings.NewReader("pp")))
	require.NoError(t, store.PutObject(ctx, "experiments", "runs/b/model.json", strings.NewReader("m")))

	objects, err := store.ListObjects(ctx, "experiments", "runs/a/")
	require.NoError(t, err)

	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
	}
	assert.ElementsMatch(t, []string{"runs/a/model.json", "runs/a/preprocessor.json"}, names)

	for _, o := range objects {
		if o.Name == "runs/a/preprocessor.json" {
			assert.Equal(t, int64(2), o.Size)
		}
	}
}

func TestLocalObjectStoreListMissingBucket(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	objects, err := store.ListObjects(ctx, "nope", "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}
