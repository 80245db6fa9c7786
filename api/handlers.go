package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/breez/feechart/chart"
	"github.com/breez/feechart/status"
	"github.com/breez/feechart/status/codes"
	"go.uber.org/zap"
)

type errorResponse struct {
	Code    string     `json:"code"`
	Class   codes.Code `json:"class"`
	Message string     `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleFeesChart(w http.ResponseWriter, r *http.Request) {
	node, ok := nodeFromContext(r.Context())
	if !ok {
		s.writeError(w, r, status.New(codes.Unauthenticated, status.ReasonUnauthorized, "Not authorized").Err())
		return
	}

	req, err := parseChartRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// The computation is shared between callers, so it must not be cancelled
	// when the first of them goes away.
	ctx := context.WithoutCancel(r.Context())
	key := fmt.Sprintf("%s|%d|%t|%s", node.Name, req.Days, req.IsCount, req.Via)
	v, err, coalesced := s.chartGroup.Do(key, func() (interface{}, error) {
		return s.charts.FeesChart(ctx, node.Backend, req)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if coalesced {
		s.log.Debug("chart request coalesced", zap.String("node", node.Name), zap.String("key", key))
	}
	s.writeJSON(w, http.StatusOK, v.(*chart.Result))
}

// parseChartRequest reads the chart parameters from the query string. A
// missing or malformed days value is left at zero so the chart service
// reports it.
func parseChartRequest(r *http.Request) (*chart.Request, error) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))

	var isCount bool
	if c := q.Get("count"); c != "" {
		var err error
		isCount, err = strconv.ParseBool(c)
		if err != nil {
			return nil, status.Newf(codes.InvalidArgument, status.ReasonInvalidCount, "invalid count %q", c).Err()
		}
	}

	// Invalid peer ids are passed on as is and rejected by the chart service.
	via := q.Get("via")
	if normalized, err := chart.NormalizePeerID(via); err == nil {
		via = normalized
	}

	return &chart.Request{
		Days:    days,
		IsCount: isCount,
		Via:     via,
	}, nil
}

func httpStatus(c codes.Code) int {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.UpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	st, ok := status.FromError(err)
	if !ok {
		s.log.Error("unclassified error", zap.String("path", r.URL.Path), zap.Error(err))
		st = status.New(codes.Internal, status.ReasonInternal, "internal error")
	} else if st.Code != codes.InvalidArgument && st.Code != codes.Unauthenticated {
		s.log.Warn("request failed", zap.String("path", r.URL.Path), zap.Stringer("status", st), zap.Error(err))
	}

	s.writeJSON(w, httpStatus(st.Code), &errorResponse{
		Code:    st.Reason,
		Class:   st.Code,
		Message: st.Message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to write response", zap.Error(err))
	}
}
