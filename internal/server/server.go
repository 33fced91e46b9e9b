package server

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/viewtube/viewtube/internal/auth"
	"github.com/viewtube/viewtube/internal/database"
	"github.com/viewtube/viewtube/internal/httputil"
	"github.com/viewtube/viewtube/internal/ratelimit"
	"github.com/viewtube/viewtube/internal/validate"
	"github.com/viewtube/viewtube/internal/video"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	DB             database.DBTX
	Pinger         Pinger
	Media          video.MediaStore
	Geo            video.GeoResolver
	JWTSecret      string
	BaseURL        string
	MaxUploadBytes int64
}

type Server struct {
	router       chi.Router
	pinger       Pinger
	authHandler  *auth.Handler
	videoHandler *video.Handler
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(securityHeaders(cfg.BaseURL))

	s := &Server{router: r, pinger: cfg.Pinger}

	if cfg.DB != nil {
		if cfg.JWTSecret == "" {
			log.Fatal("JWT_SECRET is required; set the environment variable")
		}

		s.authHandler = auth.NewHandler(cfg.JWTSecret)
		s.videoHandler = video.NewHandler(cfg.DB, cfg.Media, cfg.MaxUploadBytes)
		if cfg.Geo != nil {
			s.videoHandler.SetGeoResolver(cfg.Geo)
		}
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/limits", handleLimits)

	if s.videoHandler != nil {
		videoLimiter := ratelimit.NewLimiter(2, 10)
		s.router.Route("/api/videos", func(r chi.Router) {
			r.Use(videoLimiter.Middleware)
			r.Use(s.authHandler.Middleware)
			r.Get("/", s.videoHandler.List)
			r.Post("/", s.videoHandler.Publish)
			r.Get("/{videoID}", s.videoHandler.Get)
			r.Patch("/{videoID}", s.videoHandler.Update)
			r.Delete("/{videoID}", s.videoHandler.Delete)
			r.Patch("/{videoID}/toggle", s.videoHandler.TogglePublish)
		})
	}
}

// handleLimits publishes the text field limits so clients can validate
// before uploading.
func handleLimits(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteSuccess(w, http.StatusOK, validate.FieldLimits(), "Field limits fetched successfully")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"database unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
