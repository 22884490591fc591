package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/jt828/go-graphql-tracing/pkg/snowflake"
	"github.com/justinas/alice"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serverName = "graphql-server"

func NewRouter(schema *graphql.Schema, ids snowflake.Snowflake, log observability.Logger) http.Handler {
	chain := alice.New(requestID(ids), accessLog(log), recoverer(log))

	r := mux.NewRouter()
	r.Handle("/graphql", chain.Then(&graphqlHandler{schema: schema, log: log})).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return otelhttp.NewHandler(r, serverName, otelhttp.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))
}
