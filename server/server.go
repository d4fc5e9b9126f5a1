// Package server exposes searches, streams and detail resolution over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/vodhub/vodhub/aggregate"
	"github.com/vodhub/vodhub/constant"
	"github.com/vodhub/vodhub/dispatch"
	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/log"
	"github.com/vodhub/vodhub/provider"
	"github.com/vodhub/vodhub/source"
	"github.com/vodhub/vodhub/util"
)

const heartbeatInterval = 15 * time.Second

// DefaultRequestTimeout bounds the non-streaming endpoints.
const DefaultRequestTimeout = 60 * time.Second

// Config wires a Server.
type Config struct {
	Dispatcher *dispatch.Dispatcher
	Registry   provider.Registry
	Tuning     func() provider.Tuning
	Details    *cache.Details
	// Streaming reports whether the stream endpoints are served.
	Streaming func() bool
	// RequestTimeout bounds every endpoint except the streams, which last
	// until their dispatch completes or the client goes away.
	RequestTimeout time.Duration
}

type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
}

func New(cfg Config) *Server {
	if cfg.Tuning == nil {
		cfg.Tuning = provider.DefaultTuning
	}
	if cfg.Streaming == nil {
		cfg.Streaming = func() bool { return true }
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(bounded chi.Router) {
			bounded.Use(middleware.Timeout(s.cfg.RequestTimeout))
			bounded.Get("/health", s.handleHealth)
			bounded.Get("/providers", s.handleProviders)
			bounded.Get("/search", s.handleSearch)
			bounded.Get("/detail", s.handleDetail)
		})

		api.Get("/search/stream", s.handleStream)
		api.Get("/search/ws", s.handleWebsocket)
	})

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   constant.App,
		"version":   constant.Version,
		"time":      time.Now().UTC().Format(time.RFC3339),
		"streaming": s.cfg.Streaming(),
	})
}

type providerView struct {
	Key  string        `json:"key"`
	Name string        `json:"name"`
	Kind provider.Kind `json:"kind"`
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	configs, err := s.cfg.Registry.Enabled()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(configs, func(c provider.Config, _ int) providerView {
		return providerView{Key: c.Key, Name: c.Label(), Kind: c.Kind}
	}))
}

type searchResponse struct {
	Query    string              `json:"query"`
	Dispatch string              `json:"dispatch"`
	Progress aggregate.Progress  `json:"progress"`
	Failures []aggregate.Failure `json:"failures"`
	Results  []*source.Result    `json:"results"`
	Groups   []*aggregate.Group  `json:"groups"`
}

func parseFilter(r *http.Request) (string, aggregate.Filter, error) {
	q := r.URL.Query()

	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		return "", aggregate.Filter{}, errors.New("q is required")
	}

	order, err := aggregate.ParseOrder(q.Get("order"))
	if err != nil {
		return "", aggregate.Filter{}, err
	}

	return query, aggregate.Filter{
		Provider: q.Get("provider"),
		Title:    q.Get("title"),
		Year:     q.Get("year"),
		Order:    order,
		Query:    query,
	}, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query, filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c, err := s.cfg.Dispatcher.Collect(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	groups := aggregate.Grouped(c.Results, filter)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:    c.Query,
		Dispatch: c.Dispatch,
		Progress: aggregate.Progress{
			Total:     c.Total,
			Completed: c.Total,
			Failed:    len(c.Failures),
			Done:      true,
		},
		Failures: lo.Map(c.Failures, func(ev dispatch.Event, _ int) aggregate.Failure {
			return aggregate.Failure{Provider: ev.Provider, ProviderLabel: ev.ProviderLabel, Reason: ev.Reason, Message: ev.Message}
		}),
		Results: aggregate.Flat(c.Results, filter),
		Groups:  lo.Ternary(groups == nil, []*aggregate.Group{}, groups),
	})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) (<-chan dispatch.Event, bool) {
	if !s.cfg.Streaming() {
		writeError(w, http.StatusNotFound, errors.New("streaming is disabled, use /api/search"))
		return nil, false
	}

	query, _, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	events, err := s.cfg.Dispatcher.Dispatch(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}

	return events, true
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	events, ok := s.dispatch(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Errorf("encode %s event: %s", ev.Type, err)
				continue
			}

			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	events, ok := s.dispatch(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %s", err)
		return
	}
	defer util.Ignore(conn.Close)

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			log.Warnf("websocket write: %s", err)
			return
		}
	}

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "complete"),
		time.Now().Add(time.Second),
	)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	providerKey := strings.TrimSpace(r.URL.Query().Get("provider"))
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if providerKey == "" || id == "" {
		writeError(w, http.StatusBadRequest, errors.New("provider and id are required"))
		return
	}

	src, err := provider.Find(s.cfg.Registry, s.cfg.Tuning(), providerKey)
	if err != nil {
		writeError(w, lo.Ternary(errors.Is(err, provider.ErrUnknownProvider), http.StatusNotFound, http.StatusInternalServerError), err)
		return
	}

	detail, err := provider.Detail(r.Context(), src, s.cfg.Details, id)
	if err != nil {
		writeJSON(w, detailStatus(err), map[string]string{
			"error":  err.Error(),
			"reason": source.Reason(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func detailStatus(err error) int {
	switch {
	case errors.Is(err, source.ErrDetailResolution):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrNetworkTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
