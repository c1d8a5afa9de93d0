package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/masquerade/internal/api"
	"github.com/kiliankoe/masquerade/internal/config"
	"github.com/kiliankoe/masquerade/internal/game"
	"github.com/kiliankoe/masquerade/internal/ws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev" // Set at build time via -ldflags

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "masquerade",
		Short:         "Game server for a 4-6 player hidden role party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
	}
	config.Flags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := config.NewViper(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	}
	return cmd
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func corsConfig(clientURL string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Origin"},
	}
	if clientURL == "*" {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = []string{clientURL}
	c.AllowCredentials = true
	return c
}

func serve(ctx context.Context, cfg config.Config) error {
	setupLogging(cfg.Verbose)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.ClientURL)))
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	rm := game.NewRoomManager(game.WithLogger(log.Logger))
	api.Register(r, rm)
	io := ws.New(rm, cfg).Mount(r)
	defer io.Close()

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("version", version).Str("client_url", cfg.ClientURL).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
