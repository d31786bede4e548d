// Package ds3http exposes a mounted file system over HTTP under the /ds3/
// path prefix: GET reads a file's bytes or lists a directory, PUT writes a
// file (creating any missing parent directories), and DELETE unlinks a
// path. Service implements http.Handler directly; ds3serve wraps it with
// gorilla/handlers logging and recovery middleware.
package ds3http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufserr"
	"github.com/Dieg0raf/ufs/ufsfs"
)

// Service serves one mounted FileSystem. All requests are serialized
// through a single mutex: the file system core has no internal locking of
// its own, so the façade owns exclusivity for the whole request.
type Service struct {
	fs *ufsfs.FileSystem
	mu sync.Mutex
}

// New wraps fs as an http.Handler.
func New(fs *ufsfs.FileSystem) *Service {
	return &Service{fs: fs}
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodPut:
		s.handlePut(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// splitPath validates and strips the two "ds3" components every request
// path carries ahead of the real FS path: one from the service's own /ds3/
// route binding (echoed back in r.URL.Path since the service does not use
// http.StripPrefix), one as the bookkeeping sentinel that always precedes
// the real path components. What remains after both are consumed is the
// actual path to walk from the root.
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, ufserr.New(ufserr.StatusBadRequest)
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] != "ds3" || parts[1] != "ds3" {
		return nil, ufserr.Newf(ufserr.StatusBadRequest, "path must start with /ds3/ds3/")
	}
	return parts[2:], nil
}

func (s *Service) lookupPath(components []string) (uint32, error) {
	cur := ufsfs.RootInode
	for _, name := range components {
		next, err := s.fs.Lookup(cur, name)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	return cur, nil
}

// ensureDirPath walks components as directories, creating any that don't
// already exist (mkdir -p), and returns the final directory's inode number.
func (s *Service) ensureDirPath(components []string) (uint32, error) {
	cur := ufsfs.RootInode
	for _, name := range components {
		next, err := s.fs.Create(cur, name, layout.Directory)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	return cur, nil
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	components, err := splitPath(r.URL.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	inum, err := s.lookupPath(components)
	if err != nil {
		writeError(w, err)
		return
	}

	stat, err := s.fs.Stat(inum)
	if err != nil {
		writeError(w, err)
		return
	}

	if stat.Type == layout.Directory {
		s.writeDirectoryListing(w, inum)
		return
	}

	data, err := s.fs.Read(inum, int(stat.Size))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

// writeDirectoryListing writes one name per line, sorted, with a trailing
// "/" on directory names, excluding "." and "..".
func (s *Service) writeDirectoryListing(w http.ResponseWriter, inum uint32) {
	entries, err := s.fs.ReadDir(inum)
	if err != nil {
		writeError(w, err)
		return
	}

	filtered := entries[:0]
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		filtered = append(filtered, entry)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, entry := range filtered {
		name := entry.Name
		if entry.Type == layout.Directory {
			name += "/"
		}
		fmt.Fprintln(w, name)
	}
}

func (s *Service) handlePut(w http.ResponseWriter, r *http.Request) {
	components, err := splitPath(r.URL.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(components) == 0 {
		writeError(w, ufserr.New(ufserr.StatusBadRequest))
		return
	}

	dirComponents, name := components[:len(components)-1], components[len(components)-1]
	parent, err := s.ensureDirPath(dirComponents)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, ufserr.New(ufserr.StatusBadRequest))
		return
	}

	inum, err := s.fs.Create(parent, name, layout.RegularFile)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.fs.Write(inum, body); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	components, err := splitPath(r.URL.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(components) == 0 {
		writeError(w, ufserr.New(ufserr.StatusBadRequest))
		return
	}

	dirComponents, name := components[:len(components)-1], components[len(components)-1]
	parent, err := s.lookupPath(dirComponents)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.fs.Unlink(parent, name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func statusCode(err error) int {
	var ferr *ufserr.Error
	if !errors.As(err, &ferr) {
		return http.StatusInternalServerError
	}
	switch ferr.Status {
	case ufserr.StatusNotFound:
		return http.StatusNotFound
	case ufserr.StatusBadRequest,
		ufserr.StatusInvalidName,
		ufserr.StatusInvalidType,
		ufserr.StatusInvalidSize,
		ufserr.StatusInvalidInode,
		ufserr.StatusDirNotEmpty,
		ufserr.StatusUnlinkNotAllowed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(statusCode(err))
	fmt.Fprintln(w, err.Error())
}
