package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/judgegodwins/snake-server/game"
	"github.com/judgegodwins/snake-server/token"
	"github.com/judgegodwins/snake-server/util"
	"github.com/judgegodwins/snake-server/ws"
	"github.com/rs/cors"
)

type Server struct {
	config  *util.Config
	manager *ws.Manager
	handler http.Handler
}

func NewServer(config *util.Config, registry *game.Registry, maker token.Maker) *Server {
	origin := config.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	manager := ws.NewManager(maker, registry, origin)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/session", manager.SessionHandler)
	r.Get("/ws", manager.ServeWS)

	// the browser client bundle
	r.Handle("/*", http.FileServer(http.Dir("./public")))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return &Server{
		config:  config,
		manager: manager,
		handler: c.Handler(r),
	}
}

func (s *Server) Start() error {
	return http.ListenAndServe(fmt.Sprintf(":%v", s.config.Port), s.handler)
}
