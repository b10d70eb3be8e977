package gateway

import (
	"net/http"
	"strings"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = "Accept, Content-Type, X-Requested-With"
)

// originPolicy decides which browser origins may call the gateway.
// Requests without an Origin header are always accepted.
type originPolicy struct {
	allowed  map[string]struct{}
	wildcard bool
}

// newOriginPolicy builds the policy from an allowlist. An empty list allows
// every origin in development and none in production.
func newOriginPolicy(origins []string, production bool) *originPolicy {
	p := &originPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			p.allowed[o] = struct{}{}
		}
	}
	p.wildcard = len(p.allowed) == 0 && !production
	return p
}

func (p *originPolicy) allows(origin string) bool {
	if origin == "" || p.wildcard {
		return true
	}
	_, ok := p.allowed[origin]
	return ok
}

// wrap applies the policy in front of next, answering preflight requests
// itself.
func (p *originPolicy) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Origin")
		if !p.allows(origin) {
			writeError(w, http.StatusForbidden, "origin not allowed")
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
