package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestDialTarget(t *testing.T) {
	assert.Equal(t, "localhost:9090", dialTarget(":9090"))
	assert.Equal(t, "grpc.internal:9090", dialTarget("grpc.internal:9090"))
	assert.Equal(t, "not-an-address", dialTarget("not-an-address"))
}

func TestProbe(t *testing.T) {
	s := &Servers{
		health: health.NewServer(),
		checks: map[string]Check{
			"redis": func(context.Context) error { return nil },
		},
		log: zerolog.Nop(),
	}
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, s.probe(context.Background()))

	s.checks["postgres"] = func(context.Context) error { return errors.New("down") }
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, s.probe(context.Background()))
}

func TestMountOperational(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	gateway := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	mountOperational(router, gateway, t.TempDir())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
