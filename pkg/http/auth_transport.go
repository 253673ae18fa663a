package http

import "net/http"

// headerTransport stamps a fixed header on every outgoing request. Used
// for bearer tokens; backends with other header schemes can reuse it.
type headerTransport struct {
	name      string
	value     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.name, t.value)
	return t.transport.RoundTrip(reqCopy)
}

// WithHeaderValue sets a static header on every request.
func WithHeaderValue(name, value string) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			name:      name,
			value:     value,
			transport: rt,
		}
	})
}

// WithAuthToken attaches a bearer token to every request. An empty token
// leaves requests untouched, so it is safe for local backends without auth.
func WithAuthToken(token string) Option {
	if token == "" {
		return func(*httpConfig) {}
	}
	return WithHeaderValue("Authorization", "Bearer "+token)
}
