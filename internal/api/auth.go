package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"ddarch/internal/config"
)

// adminAuth gates the staff endpoints behind a shared API-key header.
type adminAuth struct {
	cfg     config.AdminConfig
	header  string
	clients map[string]config.APIClientKey
}

func newAdminAuth(cfg config.AdminConfig) *adminAuth {
	clients := make(map[string]config.APIClientKey, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		clients[k.Key] = k
	}

	header := strings.TrimSpace(strings.ToLower(cfg.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}

	return &adminAuth{cfg: cfg, header: header, clients: clients}
}

func (a *adminAuth) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Enabled {
			writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
			return
		}

		key := strings.TrimSpace(r.Header.Get(a.header))
		if key == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "missing api key"})
			return
		}

		client, ok := a.clients[key]
		if !ok || subtle.ConstantTimeCompare([]byte(client.Key), []byte(key)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "invalid api key"})
			return
		}

		next(w, r)
	}
}
