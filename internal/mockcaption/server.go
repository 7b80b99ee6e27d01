// Package mockcaption serves a stand-in for the remote captioning service so
// the client can be exercised without the real model behind it.
package mockcaption

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/five82/narrator/internal/caption"
)

const maxUploadBytes = 10 << 20

// Options configure the fake service.
type Options struct {
	// Caption is returned verbatim. Empty describes the upload instead.
	Caption string
	// Status forces every /process-image response to this code when non-zero.
	Status int
	// Delay is slept before answering, to exercise the loading state.
	Delay  time.Duration
	Logger *zap.Logger
}

// Server is an http.Handler with request counters for tests.
type Server struct {
	opts     Options
	router   chi.Router
	requests atomic.Int64
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(caption.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	r.Post(caption.ProcessImagePath, s.handleProcessImage)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Requests returns how many /process-image calls were received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	if s.opts.Delay > 0 {
		select {
		case <-time.After(s.opts.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if s.opts.Status != 0 && (s.opts.Status < 200 || s.opts.Status > 299) {
		http.Error(w, http.StatusText(s.opts.Status), s.opts.Status)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile(caption.FormField)
	if err != nil {
		http.Error(w, "no file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	contentType := header.Header.Get("Content-Type")
	s.opts.Logger.Info("caption request",
		zap.String("filename", header.Filename),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)),
	)

	text := strings.TrimSpace(s.opts.Caption)
	if text == "" {
		text = fmt.Sprintf("a %s image named %s", humanize.Bytes(uint64(len(data))), header.Filename)
	}

	w.Header().Set("Content-Type", "application/json")
	if s.opts.Status != 0 {
		w.WriteHeader(s.opts.Status)
	}
	if err := json.NewEncoder(w).Encode(caption.Response{Caption: text}); err != nil {
		s.opts.Logger.Error("encode caption response", zap.Error(err))
	}
}
