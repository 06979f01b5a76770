package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/automoto/doomerang-levelgen/generation"
	"github.com/automoto/doomerang-levelgen/logger"
	"github.com/automoto/doomerang-levelgen/shared/grid"
	"github.com/automoto/doomerang-levelgen/shared/leveldata"
)

const (
	maxRequestBody = 1 << 22 // 4 MB
	defaultScale   = 4
	maxScale       = 16
)

type rectJSON struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Tile string `json:"tile"`
}

type placedJSON struct {
	Name string `json:"name"`
	Role string `json:"role"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
}

type chunkResponse struct {
	X          int          `json:"x"`
	Y          int          `json:"y"`
	Size       int          `json:"size"`
	TileSize   int          `json:"tileSize"`
	Rows       []string     `json:"rows"`
	Rects      []rectJSON   `json:"rects"`
	Structures []placedJSON `json:"structures"`
}

type spawnResponse struct {
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Tile     grid.Point `json:"tile"`
	Fallback bool       `json:"fallback"`
}

// validateRequest is the JSON form of POST /validate. Markers are cells.
type validateRequest struct {
	Rows     []string   `json:"rows"`
	TileSize int        `json:"tileSize"`
	Spawn    grid.Point `json:"spawn"`
	Goal     grid.Point `json:"goal"`
}

type healthResponse struct {
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
	Hits   int    `json:"hits"`
	Misses int    `json:"misses"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("[server] encode error", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func gridRows(g *grid.Grid) []string {
	return strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
}

// parseChunkPath splits "{y}" or "{y}.ext" and parses both coordinates.
func parseChunkPath(xs, ys string) (x, y int, ext string, err error) {
	if i := strings.IndexByte(ys, '.'); i >= 0 {
		ys, ext = ys[:i], ys[i+1:]
	}
	if x, err = strconv.Atoi(xs); err != nil {
		return 0, 0, "", fmt.Errorf("bad chunk x %q", xs)
	}
	if y, err = strconv.Atoi(ys); err != nil {
		return 0, 0, "", fmt.Errorf("bad chunk y %q", ys)
	}
	return x, y, ext, nil
}

// chunkExport returns the writer input for c. The origin chunk carries the
// spawn marker.
func (s *Server) chunkExport(c *generation.Chunk) leveldata.Export {
	e := leveldata.Export{Grid: c.Grid, TileSize: c.TileSize}
	if c.X == 0 && c.Y == 0 {
		if sp, err := s.cache.Spawn(); err == nil {
			e.Spawn = &leveldata.Marker{X: sp.X, Y: sp.Y}
		}
	}
	return e
}

// Chunk serves GET /chunks/{x}/{y}, /chunks/{x}/{y}.tmx and /chunks/{x}/{y}.png.
func (s *Server) Chunk(w http.ResponseWriter, r *http.Request) {
	x, y, ext, err := parseChunkPath(r.PathValue("x"), r.PathValue("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.cache.Get(x, y)
	if err != nil {
		logger.Log.Error("[server] chunk failed", zap.Int("chunk_x", x), zap.Int("chunk_y", y), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "chunk generation failed")
		return
	}

	switch ext {
	case "", "json":
		resp := chunkResponse{
			X: c.X, Y: c.Y, Size: c.Size, TileSize: c.TileSize,
			Rows:       gridRows(c.Grid),
			Rects:      make([]rectJSON, 0, len(c.Mesh)),
			Structures: make([]placedJSON, 0, len(c.Placed)),
		}
		for _, m := range c.Mesh {
			resp.Rects = append(resp.Rects, rectJSON{X: m.X, Y: m.Y, W: m.W, H: m.H, Tile: m.Tile.String()})
		}
		for _, p := range c.Placed {
			resp.Structures = append(resp.Structures, placedJSON{
				Name: p.Structure.Name, Role: string(p.Structure.Role),
				X: p.X, Y: p.Y, W: p.Structure.Width, H: p.Structure.Height,
			})
		}
		writeJSON(w, http.StatusOK, resp)

	case "tmx":
		var buf bytes.Buffer
		if err := leveldata.WriteTMX(&buf, s.chunkExport(c)); err != nil {
			logger.Log.Error("[server] tmx export failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "tmx export failed")
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(buf.Bytes())

	case "png":
		scale := defaultScale
		if v := r.URL.Query().Get("scale"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxScale {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("scale must be 1..%d", maxScale))
				return
			}
			scale = n
		}
		var buf bytes.Buffer
		if err := leveldata.WritePNG(&buf, s.chunkExport(c), s.palette, scale); err != nil {
			logger.Log.Error("[server] png export failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "png export failed")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(buf.Bytes())

	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown format %q", ext))
	}
}

// Spawn serves GET /spawn.
func (s *Server) Spawn(w http.ResponseWriter, _ *http.Request) {
	sp, err := s.cache.Spawn()
	if err != nil {
		logger.Log.Error("[server] spawn failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "spawn generation failed")
		return
	}
	writeJSON(w, http.StatusOK, spawnResponse{X: sp.X, Y: sp.Y, Tile: sp.Tile, Fallback: sp.Fallback})
}

// Validate serves POST /validate. The body is either a TMX document or a
// JSON validateRequest.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}

	var lvl *leveldata.Level
	if isXML(r.Header.Get("Content-Type")) {
		lvl, err = leveldata.LoadReader("upload", bytes.NewReader(body))
	} else {
		lvl, err = decodeValidateRequest(body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sl, err := NewServerLevel(lvl)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep := sl.Validate(s.profile)
	logger.Log.Info("[server] validated level",
		zap.Int("width", sl.Grid.Width()), zap.Int("height", sl.Grid.Height()),
		zap.Bool("traversable", rep.Traversable), zap.Int("reachable", rep.Reachable))
	writeJSON(w, http.StatusOK, rep)
}

func isXML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/xml" || mt == "text/xml" || mt == "application/x-tmx"
}

func decodeValidateRequest(body []byte) (*leveldata.Level, error) {
	var req validateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.New("invalid json")
	}
	if len(req.Rows) == 0 || req.TileSize <= 0 {
		return nil, errors.New("rows and tileSize required")
	}
	g, err := grid.Parse(req.Rows...)
	if err != nil {
		return nil, err
	}
	if !g.InBounds(req.Spawn.X, req.Spawn.Y) || !g.InBounds(req.Goal.X, req.Goal.Y) {
		return nil, errors.New("spawn and goal must lie inside the grid")
	}
	ts := float64(req.TileSize)
	center := func(p grid.Point) *leveldata.Marker {
		return &leveldata.Marker{X: float64(p.X)*ts + ts/2, Y: float64(p.Y)*ts + ts/2}
	}
	return leveldata.NewLevel("request", g, req.TileSize, center(req.Spawn), center(req.Goal)), nil
}

// Health serves GET /health.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	hits, misses := s.cache.Stats()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Chunks: s.cache.Len(), Hits: hits, Misses: misses})
}
