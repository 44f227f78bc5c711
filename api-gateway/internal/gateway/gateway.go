package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"foodie/logging"
	"foodie/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	FoodieSvcURL    string
	AssistantSvcURL string
	AllowedOrigins  []string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger zerolog.Logger
}

// Headers that describe a single connection and must not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// customerHeader carries identity between internal services only. Callers
// of the gateway never get to choose it.
const customerHeader = "X-Customer-ID"

type publicRoute struct {
	method string
	path   string
	prefix bool
}

// foodie-svc routes reachable from outside. Commits, deposits, user data
// and admin stay on the internal network where only assistant-svc calls
// them after its quote checks.
var publicFoodieRoutes = []publicRoute{
	{method: http.MethodGet, path: "/"},
	{method: http.MethodGet, path: "/menu", prefix: true},
	{method: http.MethodGet, path: "/branches", prefix: true},
	{method: http.MethodGet, path: "/pre_book", prefix: true},
	{method: http.MethodPost, path: "/pre_order"},
}

func isPublicFoodieRoute(method, path string) bool {
	for _, route := range publicFoodieRoutes {
		if method != route.method {
			continue
		}
		if path == route.path || (route.prefix && strings.HasPrefix(path, route.path+"/")) {
			return true
		}
	}
	return false
}

func NewGateway(config Config, client HTTPClient, logger zerolog.Logger) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ProxyRequest forwards r to targetURL+path and streams the upstream
// response back unchanged.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL, path string) {
	url := strings.TrimRight(targetURL, "/") + path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	g.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("upstream", url).Msg("proxy")

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error().Err(err).Str("upstream", url).Msg("failed to create request")
		writeError(w, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}
	req.Header.Del(customerHeader)
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if prior := req.Header.Get("X-Forwarded-For"); prior != "" {
			ip = prior + ", " + ip
		}
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("upstream", targetURL).Msg("failed to proxy")
		writeError(w, http.StatusBadGateway, "Upstream service unavailable", "bad_gateway")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	for _, h := range hopHeaders {
		w.Header().Del(h)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warn().Err(err).Str("upstream", targetURL).Msg("failed to copy response")
	}
}

// RouteHandler sends conversation routes to assistant-svc as-is and the
// public catalog routes to foodie-svc with the /api prefix removed.
// Anything else is not found.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/chat",
		path == "/api/sessions",
		strings.HasPrefix(path, "/api/sessions/"):
		g.ProxyRequest(w, r, g.config.AssistantSvcURL, path)
	case path == "/api" || strings.HasPrefix(path, "/api/"):
		upstream := strings.TrimPrefix(path, "/api")
		if upstream == "" {
			upstream = "/"
		}
		if !isPublicFoodieRoute(r.Method, upstream) {
			g.logger.Info().Str("method", r.Method).Str("path", path).Msg("blocked internal route")
			writeError(w, http.StatusNotFound, "Route not found", "not_found")
			return
		}
		g.ProxyRequest(w, r, g.config.FoodieSvcURL, upstream)
	default:
		g.logger.Debug().Str("path", path).Msg("unmatched route")
		writeError(w, http.StatusNotFound, "Route not found", "not_found")
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(logging.Middleware(g.logger))
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)

	c := cors.New(cors.Options{
		AllowedOrigins:   g.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
