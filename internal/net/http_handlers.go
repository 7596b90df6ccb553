package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"ironsight/server"
	"ironsight/server/internal/net/ws"
	"ironsight/server/logging"
)

type HTTPHandlerConfig struct {
	Logger *log.Logger
}

// NewHTTPHandler wires the public HTTP surface: the websocket endpoint plus
// the health and diagnostics probes.
func NewHTTPHandler(gateway *server.Gateway, hub *ws.Hub, router *logging.Router, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	wsHandler := ws.NewHandler(gateway, hub, ws.HandlerConfig{Logger: logger})

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rooms, sessions := gateway.Registry().Counts()

		payload := struct {
			Status      string              `json:"status"`
			ServerTime  int64               `json:"serverTime"`
			Rooms       int                 `json:"rooms"`
			Sessions    int                 `json:"sessions"`
			Connections int                 `json:"connections"`
			Logging     logging.RouterStats `json:"logging"`
		}{
			Status:      "ok",
			ServerTime:  time.Now().UnixMilli(),
			Rooms:       rooms,
			Sessions:    sessions,
			Connections: hub.SessionCount(),
		}
		if router != nil {
			payload.Logging = router.Stats()
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", wsHandler.Handle)

	return mux
}

func httpError(w nethttp.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	w.Write([]byte(message))
}
