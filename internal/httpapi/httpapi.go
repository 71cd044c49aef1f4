// Package httpapi exposes the updater over plain HTTP for running outside
// API Gateway. It maps query parameters onto an updater.Request the same way
// the gateway mapping template does.
package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/updater"
)

// Updater handles one update request.
type Updater interface {
	Handle(ctx context.Context, req updater.Request) updater.Result
}

// NewRouter returns the HTTP routes:
//
//	GET /update?hostname=<fqdn>&secret=<secret>[&ip=<addr>]
//	GET /healthz
func NewRouter(log logr.Logger, u Updater) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/update", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		res := u.Handle(req.Context(), updater.Request{
			SourceIP:    sourceIP(req),
			GivenSecret: q.Get("secret"),
			SetHostname: q.Get("hostname"),
			SetIP:       q.Get("ip"),
		})

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.Error(err, "writing response")
		}
	})

	return r
}

// sourceIP returns the caller address without port. middleware.RealIP has
// already replaced RemoteAddr with a forwarded address when one was present.
func sourceIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
