package transport

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
)

const maxBodyBytes = 1 << 20

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type graphqlHandler struct {
	schema *graphql.Schema
	log    observability.Logger
}

func (h *graphqlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req graphqlRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		h.log.Debug("graphql errors",
			observability.String("request_id", RequestIDFromContext(r.Context())),
			observability.Int("count", len(resp.Errors)),
		)
	}

	out, err := sonic.Marshal(resp)
	if err != nil {
		h.log.Error("encode graphql response", observability.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	out, _ := sonic.Marshal(map[string]any{
		"errors": []map[string]string{{"message": msg}},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
