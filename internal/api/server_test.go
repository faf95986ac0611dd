package api

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/cubview/internal/listing"
	"github.com/samcharles93/cubview/internal/logger"
	"github.com/samcharles93/cubview/pkg/cub"
)

type testBlock struct {
	typ  cub.BlockType
	data []byte
}

func buildCub(t *testing.T, blocks []testBlock) []byte {
	t.Helper()

	const headerSize = 28
	const entrySize = 12
	off := uint32(headerSize + len(blocks)*entrySize)

	var buf bytes.Buffer
	buf.WriteString(cub.MagicCube)
	writeU32 := func(v uint32) {
		var w [4]byte
		binary.LittleEndian.PutUint32(w[:], v)
		buf.Write(w[:])
	}
	writeU32(cub.MarkLittleEndian)
	writeU32(0)
	writeU32(uint32(len(blocks)))
	writeU32(headerSize)
	writeU32(0)
	writeU32(0)
	for _, b := range blocks {
		writeU32(uint32(b.typ))
		writeU32(off)
		writeU32(uint32(len(b.data)))
		off += uint32(len(b.data))
	}
	for _, b := range blocks {
		buf.Write(b.data)
	}
	return buf.Bytes()
}

func newTestEcho(t *testing.T) (*echo.Echo, string) {
	t.Helper()

	root := t.TempDir()
	data := buildCub(t, []testBlock{
		{typ: cub.TypeACIS, data: []byte("acis geometry")},
		{typ: cub.TypeMesh, data: []byte("mesh payload")},
	})
	if err := os.WriteFile(filepath.Join(root, "model.cub"), data, 0o644); err != nil {
		t.Fatalf("write model.cub: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "broken.cub"), []byte("PNG not a cub"), 0o644); err != nil {
		t.Fatalf("write broken.cub: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write notes.txt: %v", err)
	}

	e := echo.New()
	NewServer(root, logger.Text(io.Discard, slog.LevelInfo)).Register(e)
	return e, root
}

func do(t *testing.T, e *echo.Echo, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListFiles(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	rec := do(t, e, "/v1/files")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var fl FileList
	if err := json.Unmarshal(rec.Body.Bytes(), &fl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fl.Files) != 2 {
		t.Fatalf("files = %v, want the two .cub files only", fl.Files)
	}
	for _, name := range fl.Files {
		if !strings.HasSuffix(name, ".cub") {
			t.Fatalf("non-cub file listed: %q", name)
		}
	}
}

func TestDescribeFile(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	rec := do(t, e, "/v1/files/model.cub")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var toc listing.TOC
	if err := json.Unmarshal(rec.Body.Bytes(), &toc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if toc.EntryCount != 2 || len(toc.Blocks) != 2 {
		t.Fatalf("toc = %+v", toc)
	}
	if toc.Blocks[1].TypeName != "MESH" {
		t.Fatalf("second block = %+v, want MESH", toc.Blocks[1])
	}
}

func TestDescribeErrors(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)

	if rec := do(t, e, "/v1/files/missing.cub"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing file: status = %d", rec.Code)
	}
	if rec := do(t, e, "/v1/files/broken.cub"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("broken file: status = %d body=%s", rec.Code, rec.Body.String())
	}
	// Names trying to escape the root never reach the filesystem; whether
	// the router or resolvePath rejects them, nothing is served.
	if rec := do(t, e, "/v1/files/..%2Fsecret.cub"); rec.Code == http.StatusOK {
		t.Fatalf("traversal name was served: status = %d", rec.Code)
	}
}

func TestBlockByIndex(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	rec := do(t, e, "/v1/files/model.cub/blocks/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "mesh payload" {
		t.Fatalf("body = %q, want the mesh payload", got)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "application/octet-stream") {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Header().Get("X-Download-ID") == "" {
		t.Fatalf("missing download id header")
	}

	if rec := do(t, e, "/v1/files/model.cub/blocks/7"); rec.Code != http.StatusNotFound {
		t.Fatalf("out of range index: status = %d", rec.Code)
	}
	if rec := do(t, e, "/v1/files/model.cub/blocks/minus"); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric index: status = %d", rec.Code)
	}
}

func TestBlockByType(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	for _, path := range []string{
		"/v1/files/model.cub/blocks/by-type/mesh",
		"/v1/files/model.cub/blocks/by-type/2",
	} {
		rec := do(t, e, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d body=%s", path, rec.Code, rec.Body.String())
		}
		if rec.Body.String() != "mesh payload" {
			t.Fatalf("%s: body = %q", path, rec.Body.String())
		}
	}

	if rec := do(t, e, "/v1/files/model.cub/blocks/by-type/assembly"); rec.Code != http.StatusNotFound {
		t.Fatalf("absent type: status = %d", rec.Code)
	}
	if rec := do(t, e, "/v1/files/model.cub/blocks/by-type/granular"); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown type name: status = %d", rec.Code)
	}
}
