package router

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// New returns the root handler. It serves the operational endpoints
// /liveness, /readiness and /metrics next to the huma API, which gets
// the OpenAPI document and its docs page on top of what opts register.
func New(
	title, version string,
	readiness http.HandlerFunc,
	metrics http.HandlerFunc,
	opts ...func(huma.API),
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /liveness", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /readiness", readiness)
	mux.HandleFunc("GET /metrics", metrics)

	api := humago.New(mux, NewConfig(title, version))
	for _, opt := range opts {
		opt(api)
	}

	return mux
}

// NewConfig is [huma.DefaultConfig] without the create hooks, so response
// bodies carry no $schema member.
func NewConfig(title, version string) huma.Config {
	config := huma.DefaultConfig(title, version)
	config.CreateHooks = nil
	return config
}

// OptUseMiddleware adds middlewares to the API. Those run for every
// operation registered after this option.
func OptUseMiddleware(middlewares ...func(huma.Context, func(huma.Context))) func(huma.API) {
	return func(api huma.API) { api.UseMiddleware(middlewares...) }
}

// OptGroup applies opts to a group mounted at prefix.
// An empty prefix applies opts to the API itself.
func OptGroup(prefix string, opts ...func(huma.API)) func(huma.API) {
	return func(api huma.API) {
		if prefix != "" {
			api = huma.NewGroup(api, prefix)
		}
		for _, opt := range opts {
			opt(api)
		}
	}
}

// OptAutoRegister registers the operations of v, see [huma.AutoRegister].
func OptAutoRegister(v any) func(huma.API) {
	return func(api huma.API) { huma.AutoRegister(api, v) }
}
