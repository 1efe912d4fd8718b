// Package server composes the HTTP router and runs it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/abstractedfox/gameengine/internal/audio"
	"github.com/abstractedfox/gameengine/internal/config"
	mfs "github.com/abstractedfox/gameengine/internal/fs"
	"github.com/abstractedfox/gameengine/internal/handler"
	"github.com/abstractedfox/gameengine/internal/page"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Route paths.
const (
	PathIndex      = "/"
	PathAudio      = "/audio"
	PathAudioFiles = "/sounds"
	PathTracks     = "/api/tracks"
	PathWS         = "/api/ws"
	PathHealth     = "/health"
	PathStatic     = "/static"
)

const shutdownTimeout = 5 * time.Second

// Server is the single composed HTTP server instance.
type Server struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	engine *gin.Engine
}

// New builds the router. ws receives audio change notifications from the
// caller's watcher; it may be shared with other components.
func New(cfg *config.Config, log logrus.FieldLogger, ws *handler.WSHandler) *Server {
	lister := audio.NewLister(cfg, mfs.NewLocalFS(cfg.Audio.Dir))
	renderer := page.NewRenderer(
		mfs.NewLocalFS(filepath.Dir(cfg.Template)),
		filepath.Base(cfg.Template),
		page.Data{
			Title:         "Game Engine",
			AudioURL:      PathAudio,
			AudioFilesURL: PathAudioFiles,
			TracksURL:     PathTracks,
			StaticURL:     PathStatic,
			WSURL:         PathWS,
		},
	)

	pageHandler := handler.NewPageHandler(renderer, log)
	audioHandler := handler.NewAudioHandler(lister, log)
	healthHandler := handler.NewHealthHandler()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(log))
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET(PathIndex, pageHandler.Index)
	r.GET(PathAudio, audioHandler.List)
	r.GET(PathHealth, healthHandler.Health)
	r.Static(PathStatic, cfg.StaticDir)
	// Audio files are served from the audio dir wherever it lives
	r.Static(PathAudioFiles, cfg.Audio.Dir)

	api := r.Group("/api")
	{
		api.GET("/tracks", audioHandler.Tracks)
		api.GET("/ws", ws.HandleWS)
	}

	return &Server{cfg: cfg, log: log, engine: r}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server starting at: http://localhost:%d", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
