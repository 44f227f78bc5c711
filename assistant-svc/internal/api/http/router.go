package httpapi

import (
	"net/http"

	"foodie/logging"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func NewRouter(handler *Handler, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(logging.Middleware(logger))
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}
