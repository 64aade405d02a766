package stream

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/export"
	"github.com/san-kum/dendrite/internal/render"
)

//go:embed static
var static embed.FS

const writeTimeout = 5 * time.Second

// FrameMessage is sent once per replay frame.
type FrameMessage struct {
	Seed      int64   `json:"seed"`
	Frame     int     `json:"frame"`
	Frames    int     `json:"frames"`
	Progress  float64 `json:"progress"`
	Segments  int     `json:"segments"`
	Terminals int     `json:"terminals"`
	Total     int     `json:"total"`
	SVG       string  `json:"svg"`
}

type Config struct {
	Params dendrite.ForestParams
	Seed   int64
	Frames int
	Delay  time.Duration
	SVG    export.SVGOptions
	Reveal render.Reveal
	// OriginPatterns lists hosts allowed to open cross-origin sockets.
	OriginPatterns []string
}

// Server streams forest replays to browsers over websockets.
type Server struct {
	cfg Config
	log *log.Logger
}

func NewServer(cfg Config, logger *log.Logger) (*Server, error) {
	if cfg.Frames < 1 {
		return nil, render.ErrNoFrames
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 60 * time.Millisecond
	}
	if cfg.SVG.Width <= 0 || cfg.SVG.Height <= 0 {
		cfg.SVG = export.DefaultSVGOptions()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, log: logger}, nil
}

func (s *Server) Handler() http.Handler {
	sub, _ := fs.Sub(static, "static")
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/", http.FileServer(http.FS(sub)))
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Printf("listening on http://%s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) seedFrom(r *http.Request) (int64, error) {
	q := r.URL.Query().Get("seed")
	if q == "" {
		return s.cfg.Seed, nil
	}
	seed, err := strconv.ParseInt(q, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", q)
	}
	return seed, nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	seed, err := s.seedFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.OriginPatterns,
	})
	if err != nil {
		s.log.Println(err)
		return
	}
	defer c.CloseNow()

	s.log.Printf("replay seed %d for %s", seed, r.RemoteAddr)
	ctx := c.CloseRead(r.Context())
	if err := s.replay(ctx, c, seed); err != nil {
		if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
			s.log.Printf("replay to %s: %v", r.RemoteAddr, err)
		}
		return
	}
	c.Close(websocket.StatusNormalClosure, "replay finished")
}

// replay grows the forest for seed and writes one message per frame.
func (s *Server) replay(ctx context.Context, c *websocket.Conn, seed int64) error {
	f, err := dendrite.GrowForest(rand.New(rand.NewSource(seed)), s.cfg.Params)
	if err != nil {
		return err
	}
	plan, err := render.NewPlan(f, s.cfg.Frames)
	if err != nil {
		return err
	}
	plan.SetReveal(s.cfg.Reveal)

	ticker := time.NewTicker(s.cfg.Delay)
	defer ticker.Stop()

	for k := 0; k < plan.Frames(); k++ {
		fr := plan.Frame(k)
		msg := FrameMessage{
			Seed:      seed,
			Frame:     k,
			Frames:    plan.Frames(),
			Progress:  fr.Progress,
			Segments:  len(fr.Segments),
			Terminals: len(fr.Terminals),
			Total:     fr.Total,
			SVG:       export.FrameToSVG(f, fr, s.cfg.SVG),
		}

		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, c, msg)
		cancel()
		if err != nil {
			return err
		}

		if k == plan.Frames()-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
