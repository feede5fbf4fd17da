package ids_test

import (
	"os"
	"path/filepath"
	"testing"

	"data-france/core/ids"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "communes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func com(code string) ids.Fields {
	return ids.Fields{"type": "COM", "code": code}
}

func TestAllocationOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "communes.csv")

	store, err := ids.Open(path, ids.WithCreate("type", "code"))
	require.NoError(t, err)

	for i, code := range []string{"01001", "01002", "01004"} {
		id, err := store.LookupOrAllocate(com(code))
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}
	require.NoError(t, store.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type,code,id\nCOM,01001,0\nCOM,01002,1\nCOM,01004,2\n", string(data))
}

func TestAllocationContinuesFromMax(t *testing.T) {
	path := writeStore(t, "type,code,id\nCOM,01001,5\nCOM,01002,2\n")

	store, err := ids.Open(path)
	require.NoError(t, err)
	defer store.Discard()

	id, err := store.LookupOrAllocate(com("01003"))
	require.NoError(t, err)
	assert.Equal(t, 6, id)
}

func TestIDStability(t *testing.T) {
	path := writeStore(t, "type,code,id\nCOM,01001,0\n")

	store, err := ids.Open(path)
	require.NoError(t, err)

	first, err := store.LookupOrAllocate(com("01053"))
	require.NoError(t, err)
	again, err := store.LookupOrAllocate(com("01053"))
	require.NoError(t, err)
	assert.Equal(t, first, again)
	require.NoError(t, store.Close())

	reopened, err := ids.Open(path)
	require.NoError(t, err)
	defer reopened.Discard()

	nextRun, err := reopened.LookupOrAllocate(com("01053"))
	require.NoError(t, err)
	assert.Equal(t, first, nextRun)
	assert.Equal(t, 0, reopened.Allocated())
}

func TestWriteBackPreservesOrder(t *testing.T) {
	path := writeStore(t, "type,code,id\nCOMD,01015,7\nCOM,01001,3\n")

	store, err := ids.Open(path)
	require.NoError(t, err)

	_, err = store.LookupOrAllocate(com("01400"))
	require.NoError(t, err)
	_, err = store.LookupOrAllocate(ids.Fields{"type": "ARM", "code": "13201"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type,code,id\nCOMD,01015,7\nCOM,01001,3\nCOM,01400,8\nARM,13201,9\n", string(data))
}

func TestLookupReadOnlyMiss(t *testing.T) {
	path := writeStore(t, "type,code,id\nCOM,01001,0\n")

	store, err := ids.Open(path)
	require.NoError(t, err)

	_, err = store.Lookup(com("99999"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ids.ErrUnknownKey)

	var unknown *ids.UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "communes.csv", unknown.Store)

	assert.Equal(t, 0, store.Allocated())
	assert.Equal(t, 1, store.Len())

	// The miss must not have reserved an id.
	id, err := store.LookupOrAllocate(com("99999"))
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.NoError(t, store.Discard())
}

func TestDiscardLeavesFileUntouched(t *testing.T) {
	original := "type,code,id\nCOM,01001,0\n"
	path := writeStore(t, original)

	store, err := ids.Open(path)
	require.NoError(t, err)
	_, err = store.LookupOrAllocate(com("01002"))
	require.NoError(t, err)
	require.NoError(t, store.Discard())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	_, err = store.LookupOrAllocate(com("01003"))
	assert.ErrorIs(t, err, ids.ErrClosed)
	assert.NoError(t, store.Close())
}

func TestPrepareStagesWriteBack(t *testing.T) {
	original := "type,code,id\nCOM,01001,0\n"

	t.Run("discarded", func(t *testing.T) {
		path := writeStore(t, original)
		store, err := ids.Open(path)
		require.NoError(t, err)
		_, err = store.LookupOrAllocate(com("01002"))
		require.NoError(t, err)

		require.NoError(t, store.Prepare())
		assert.FileExists(t, path+".tmp")
		require.NoError(t, store.Discard())

		assert.NoFileExists(t, path+".tmp")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, string(data))
	})

	t.Run("closed", func(t *testing.T) {
		path := writeStore(t, original)
		store, err := ids.Open(path)
		require.NoError(t, err)
		_, err = store.LookupOrAllocate(com("01002"))
		require.NoError(t, err)
		require.NoError(t, store.Prepare())

		// allocating after Prepare restages on Close
		_, err = store.LookupOrAllocate(com("01003"))
		require.NoError(t, err)
		require.NoError(t, store.Close())

		assert.NoFileExists(t, path+".tmp")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original+"COM,01002,1\nCOM,01003,2\n", string(data))
	})

	t.Run("nothing allocated", func(t *testing.T) {
		path := writeStore(t, original)
		store, err := ids.Open(path)
		require.NoError(t, err)

		require.NoError(t, store.Prepare())
		assert.NoFileExists(t, path+".tmp")
		require.NoError(t, store.Close())
		assert.ErrorIs(t, store.Prepare(), ids.ErrClosed)
	})
}

func TestUnknownColumns(t *testing.T) {
	path := writeStore(t, "code,id\n01,0\n")

	store, err := ids.Open(path)
	require.NoError(t, err)
	defer store.Discard()

	_, err = store.LookupOrAllocate(ids.Fields{"code": "01", "type": "COM"})
	assert.ErrorIs(t, err, ids.ErrUnknownColumn)

	_, err = store.Lookup(ids.Fields{"numero": "01"})
	assert.ErrorIs(t, err, ids.ErrUnknownColumn)
}

func TestMalformedStores(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"DuplicateKeyDifferentIDs", "code,id\n01,0\n01,1\n"},
		{"SharedID", "code,id\n01,0\n02,0\n"},
		{"NoIDColumn", "code,nom\n01,Ain\n"},
		{"InvalidID", "code,id\n01,abc\n"},
		{"NegativeID", "code,id\n01,-3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStore(t, tt.content)
			store, err := ids.Open(path)
			assert.ErrorIs(t, err, ids.ErrMalformedStore)
			assert.Nil(t, store)
		})
	}
}

func TestDuplicateRowSameIDIsTolerated(t *testing.T) {
	path := writeStore(t, "code,id\n01,0\n01,0\n02,1\n")

	store, err := ids.Open(path)
	require.NoError(t, err)
	defer store.Discard()
	assert.Equal(t, 2, store.Len())
}

func TestMissingFileWithoutCreate(t *testing.T) {
	_, err := ids.Open(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	reg := ids.NewRegistry(t.TempDir())

	store, err := reg.Open("epci")
	require.NoError(t, err)
	assert.Equal(t, []string{"code"}, store.Columns())
	assert.Equal(t, reg.Path("epci"), store.Path())

	id, err := store.LookupOrAllocate(ids.Fields{"code": "200000172"})
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	require.NoError(t, store.Close())

	data, err := os.ReadFile(reg.Path("epci"))
	require.NoError(t, err)
	assert.Equal(t, "code,id\n200000172,0\n", string(data))
}
