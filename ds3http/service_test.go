package ds3http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/ds3http"
	"github.com/Dieg0raf/ufs/ufsfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *ds3http.Service {
	t.Helper()
	dev := blockdev.NewMemBlockDevice(128)
	require.NoError(t, ufsfs.Format(dev, ufsfs.FormatOptions{NumInodes: 32, NumData: 64}))
	fs, err := ufsfs.New(dev)
	require.NoError(t, err)
	return ds3http.New(fs)
}

func doRequest(svc *ds3http.Service, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func TestPutThenGetFile(t *testing.T) {
	svc := newTestService(t)

	put := doRequest(svc, http.MethodPut, "/ds3/ds3/hello.txt", "hello world")
	assert.Equal(t, http.StatusOK, put.Code)

	get := doRequest(svc, http.MethodGet, "/ds3/ds3/hello.txt", "")
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "hello world", get.Body.String())
}

func TestPutCreatesIntermediateDirectories(t *testing.T) {
	svc := newTestService(t)

	put := doRequest(svc, http.MethodPut, "/ds3/ds3/a/b/c.txt", "nested")
	require.Equal(t, http.StatusOK, put.Code)

	get := doRequest(svc, http.MethodGet, "/ds3/ds3/a/b/c.txt", "")
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "nested", get.Body.String())
}

func TestGetDirectoryListsSortedNamesExcludingDotEntries(t *testing.T) {
	svc := newTestService(t)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/b.txt", "b").Code)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/a.txt", "a").Code)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/sub/nested.txt", "n").Code)

	get := doRequest(svc, http.MethodGet, "/ds3/ds3/", "")
	assert.Equal(t, http.StatusOK, get.Code)
	lines := strings.Split(strings.TrimRight(get.Body.String(), "\n"), "\n")
	assert.Equal(t, []string{"a.txt", "b.txt", "sub/"}, lines)
}

func TestGetMissingFileReturnsNotFound(t *testing.T) {
	svc := newTestService(t)
	get := doRequest(svc, http.MethodGet, "/ds3/ds3/nope.txt", "")
	assert.Equal(t, http.StatusNotFound, get.Code)
}

func TestGetRejectsPathMissingSentinel(t *testing.T) {
	svc := newTestService(t)
	get := doRequest(svc, http.MethodGet, "/nope/file.txt", "")
	assert.Equal(t, http.StatusBadRequest, get.Code)
}

func TestDeleteRemovesFile(t *testing.T) {
	svc := newTestService(t)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/doomed.txt", "x").Code)

	del := doRequest(svc, http.MethodDelete, "/ds3/ds3/doomed.txt", "")
	assert.Equal(t, http.StatusOK, del.Code)

	get := doRequest(svc, http.MethodGet, "/ds3/ds3/doomed.txt", "")
	assert.Equal(t, http.StatusNotFound, get.Code)
}

func TestDeleteNonEmptyDirectoryReturnsBadRequest(t *testing.T) {
	svc := newTestService(t)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/dir/child.txt", "x").Code)

	del := doRequest(svc, http.MethodDelete, "/ds3/ds3/dir", "")
	assert.Equal(t, http.StatusBadRequest, del.Code)
}

func TestPutOverwritesExistingFile(t *testing.T) {
	svc := newTestService(t)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/f.txt", "first").Code)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/f.txt", "second-longer-value").Code)

	get := doRequest(svc, http.MethodGet, "/ds3/ds3/f.txt", "")
	assert.Equal(t, "second-longer-value", get.Body.String())
}

// TestEndToEndScenario exercises the create/write/GET/DELETE/unlink sequence
// end to end against a single directory, mirroring the "root empty ->
// create a -> create f under a -> write hello -> list/read/delete/unlink"
// walk a client would actually perform.
func TestEndToEndScenario(t *testing.T) {
	svc := newTestService(t)

	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodPut, "/ds3/ds3/a/f", "hello").Code)

	list := doRequest(svc, http.MethodGet, "/ds3/ds3/a/", "")
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Equal(t, "f\n", list.Body.String())

	read := doRequest(svc, http.MethodGet, "/ds3/ds3/a/f", "")
	assert.Equal(t, http.StatusOK, read.Code)
	assert.Equal(t, "hello", read.Body.String())

	delDir := doRequest(svc, http.MethodDelete, "/ds3/ds3/a", "")
	assert.Equal(t, http.StatusBadRequest, delDir.Code)

	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodDelete, "/ds3/ds3/a/f", "").Code)
	require.Equal(t, http.StatusOK, doRequest(svc, http.MethodDelete, "/ds3/ds3/a", "").Code)
}
