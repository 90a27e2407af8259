package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/geoserve/internal/logger"
	"github.com/bastiangx/geoserve/pkg/config"
	"github.com/bastiangx/geoserve/pkg/geo"
	"github.com/bastiangx/geoserve/pkg/search"
)

// Server handles the IPC for place-name search.
type Server struct {
	engine *search.Engine
	cfg    *config.Config
	log    *log.Logger
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
}

// NewServer creates a search server using stdin/stdout for IPC.
func NewServer(engine *search.Engine, cfg *config.Config) *Server {
	return NewServerIO(engine, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a server on explicit streams, mainly for tests.
func NewServerIO(engine *search.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine: engine,
		cfg:    cfg,
		log:    logger.New("ipc"),
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests until EOF.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server.")
	s.send(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handle(ctx, req)
	}
}

func (s *Server) handle(ctx context.Context, req Request) {
	switch req.Cmd {
	case "search":
		s.handleSearch(req, false)
	case "fuzzy":
		s.handleSearch(req, true)
	case "viewport":
		s.engine.CheckAndLoadCountries(ctx, req.Lat, req.Lng, req.Zoom)
		s.sendStatus(req.ID)
	case "status":
		s.sendStatus(req.ID)
	case "init":
		if err := s.engine.Initialize(ctx); err != nil {
			s.log.Errorf("Initialization failed: %v", err)
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		s.sendStatus(req.ID)
	case "destroy":
		s.engine.Destroy()
		s.sendStatus(req.ID)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown command: %s", req.Cmd), 400)
	}
}

func (s *Server) handleSearch(req Request, fuzzy bool) {
	if req.Query == "" {
		s.sendError(req.ID, "Missing 'q' parameter", 400)
		s.log.Debug("Query is empty in request")
		return
	}
	if len(req.Query) > s.cfg.Search.MaxQueryLen {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Search.MaxQueryLen), 400)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Search.DefaultLimit
	}
	if limit > s.cfg.Search.MaxLimit {
		limit = s.cfg.Search.MaxLimit
	}

	start := time.Now()
	var results []geo.SearchResult
	if fuzzy {
		results = s.engine.FuzzySearch(req.Query, limit)
	} else {
		results = s.engine.Search(req.Query, limit)
	}
	elapsed := time.Since(start).Microseconds()

	entries := make([]ResultEntry, len(results))
	for i, r := range results {
		entries[i] = ResultEntry{
			ID:         r.ID,
			Name:       r.Name,
			Type:       string(r.Type),
			Country:    r.CountryCode,
			Lat:        r.Lat,
			Lng:        r.Lng,
			Zoom:       r.Zoom,
			Population: r.Population,
			Score:      r.Score,
			Field:      r.MatchedField,
		}
	}
	s.send(SearchResponse{
		ID:        req.ID,
		Results:   entries,
		Count:     len(entries),
		TimeTaken: elapsed,
	})
}

func (s *Server) sendStatus(id string) {
	st := s.engine.Status()
	s.send(StatusResponse{
		ID:            id,
		Status:        "ok",
		Initialized:   st.Initialized,
		LocationCount: st.LocationCount,
	})
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}
