package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/breez/feechart/shared"
	"github.com/breez/feechart/status"
	"github.com/breez/feechart/status/codes"
)

type contextKey string

const nodeContextKey contextKey = "node"

// authenticate resolves the node a request is meant for from its bearer
// token.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token := strings.TrimPrefix(auth, "Bearer ")
			node, err := s.nodes.GetNode(token)
			if err == nil {
				ctx := context.WithValue(r.Context(), nodeContextKey, node)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		s.writeError(w, r, status.New(codes.Unauthenticated, status.ReasonUnauthorized, "Not authorized").Err())
	})
}

func nodeFromContext(ctx context.Context) (*shared.Node, bool) {
	node, ok := ctx.Value(nodeContextKey).(*shared.Node)
	return node, ok
}
