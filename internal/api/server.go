// Package api serves a directory of cub files over HTTP.
package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/cubview/internal/listing"
	"github.com/samcharles93/cubview/internal/logger"
	"github.com/samcharles93/cubview/pkg/cub"
)

// Server exposes listing and block download for every .cub file under a
// root directory. Each request opens the file fresh; there is no shared
// decoded state between requests.
type Server struct {
	root string
	log  logger.Logger
}

func NewServer(root string, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{root: root, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/files", s.handleListFiles)
	e.GET("/v1/files/:name", s.handleDescribe)
	e.GET("/v1/files/:name/blocks/:index", s.handleBlockByIndex)
	e.GET("/v1/files/:name/blocks/by-type/:type", s.handleBlockByType)
}

func (s *Server) handleListFiles(c *echo.Context) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return writeServerError(c, err.Error())
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".cub") {
			names = append(names, e.Name())
		}
	}
	return c.JSON(http.StatusOK, FileList{Files: names})
}

func (s *Server) handleDescribe(c *echo.Context) error {
	path, ok := s.resolvePath(c.Param("name"))
	if !ok {
		return writeBadRequest(c, "invalid file name")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return writeNotFound(c, "no such file")
		}
		return writeServerError(c, err.Error())
	}
	defer func() { _ = f.Close() }()

	toc, err := listing.Describe(f)
	if err != nil {
		return writeCubError(c, err)
	}
	return c.JSON(http.StatusOK, toc)
}

func (s *Server) handleBlockByIndex(c *echo.Context) error {
	path, ok := s.resolvePath(c.Param("name"))
	if !ok {
		return writeBadRequest(c, "invalid file name")
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return writeBadRequest(c, "invalid block index")
	}

	mf, err := s.openMapped(c, path)
	if mf == nil {
		return err
	}
	defer func() { _ = mf.Close() }()

	b := mf.Block(index)
	if b == nil || b.Length == 0 {
		return writeNotFound(c, "no such block")
	}
	return s.sendBlock(c, mf, b)
}

func (s *Server) handleBlockByType(c *echo.Context) error {
	path, ok := s.resolvePath(c.Param("name"))
	if !ok {
		return writeBadRequest(c, "invalid file name")
	}
	typ, err := cub.ParseBlockType(c.Param("type"))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	mf, err := s.openMapped(c, path)
	if mf == nil {
		return err
	}
	defer func() { _ = mf.Close() }()

	b := mf.BlockByType(typ)
	if b == nil || b.Length == 0 {
		return writeNotFound(c, "no block of that type")
	}
	return s.sendBlock(c, mf, b)
}

// openMapped opens path as a mapped cub file, writing the HTTP error
// itself on failure. A nil file means the returned error is the already
// written response.
func (s *Server) openMapped(c *echo.Context, path string) (*cub.MappedFile, error) {
	mf, err := cub.OpenMapped(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, writeNotFound(c, "no such file")
		}
		return nil, writeCubError(c, err)
	}
	return mf, nil
}

func (s *Server) sendBlock(c *echo.Context, mf *cub.MappedFile, b *cub.Block) error {
	id := uuid.NewString()
	c.Response().Header().Set("X-Download-ID", id)
	s.log.Info("serving block",
		"download_id", id,
		"type", b.Type.String(),
		"offset", b.Offset,
		"length", b.Length,
	)
	return c.Blob(http.StatusOK, "application/octet-stream", mf.BlockData(b))
}

// resolvePath confines name to a direct child of the root directory.
func (s *Server) resolvePath(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.root, name), true
}

func writeCubError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, cub.ErrInvalidFile):
		return writeError(c, http.StatusUnprocessableEntity, "invalid_file", err.Error())
	case errors.Is(err, cub.ErrCorruptFile):
		return writeError(c, http.StatusUnprocessableEntity, "corrupt_file", err.Error())
	case errors.Is(err, cub.ErrNotFound):
		return writeNotFound(c, err.Error())
	default:
		return writeServerError(c, err.Error())
	}
}
