// Package cli handles cmd line input and search results for DBG and testing various features
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/bastiangx/geoserve/pkg/geo"
	"github.com/bastiangx/geoserve/pkg/search"
)

// InputHandler processes user queries from stdin and prints ranked locations.
type InputHandler struct {
	engine      *search.Engine
	maxQueryLen int
	limit       int
	fuzzy       bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *search.Engine, maxQueryLen, limit int, fuzzy bool) *InputHandler {
	return &InputHandler{
		engine:      engine,
		maxQueryLen: maxQueryLen,
		limit:       limit,
		fuzzy:       fuzzy,
	}
}

// Start begins the interface loop. It continuously prompts for input, reads a
// line from stdin, and runs a search per entered query. Loop terminates if an
// error occurs while reading from stdin.
func (h *InputHandler) Start(ctx context.Context) error {
	log.Print("GeoServe CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a place name and press Enter to see matches (Ctrl+C to exit):")

	for {
		log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		// "@lat,lng,zoom" simulates a map viewport event.
		if strings.HasPrefix(query, "@") {
			h.handleViewport(ctx, query[1:])
			continue
		}
		h.handleQuery(query)
	}
}

func (h *InputHandler) handleViewport(ctx context.Context, arg string) {
	var lat, lng float64
	var zoom int
	if _, err := fmt.Sscanf(arg, "%f,%f,%d", &lat, &lng, &zoom); err != nil {
		log.Errorf("Bad viewport %q, want @lat,lng,zoom: %v", arg, err)
		return
	}
	h.engine.CheckAndLoadCountries(ctx, lat, lng, zoom)
	st := h.engine.Status()
	log.Printf("viewport (%.4f, %.4f) z%d -> %s locations indexed",
		lat, lng, zoom, utils.FormatWithCommas(st.LocationCount))
}

func (h *InputHandler) handleQuery(query string) {
	if len(query) > h.maxQueryLen {
		log.Errorf("Query too long: %s", query)
		return
	}
	if !utils.IsValidQuery(query) {
		log.Infof("No results found for query: '%s'", query)
		return
	}

	start := time.Now()
	var results []geo.SearchResult
	if h.fuzzy {
		results = h.engine.FuzzySearch(query, h.limit)
	} else {
		results = h.engine.Search(query, h.limit)
	}
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(results) == 0 {
		log.Warnf("No matches found for query: '%s'", query)
		return
	}

	log.Printf("Found %d matches for query '%s':", len(results), query)
	for i, r := range results {
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Name)
		pop := utils.FormatWithCommas(r.Population)
		log.Printf("%2d. %-40s %-9s %-3s (pop: %10s, score: %7.1f)",
			i+1, clName, r.Type, strings.ToUpper(r.CountryCode), pop, r.Score)
	}
}
