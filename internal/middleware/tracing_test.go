package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"filmorate/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("middleware-test")
	t.Cleanup(func() { observability.Tracer = prev })
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingMiddleware_NamesSpanAfterRoute(t *testing.T) {
	sr := recordSpans(t)
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Put("/api/films/:id/like/:userId", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/api/films/12/like/7", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "PUT /api/films/:id/like/:userId", spans[0].Name())

	attrs := spanAttrs(spans[0])
	assert.Equal(t, int64(12), attrs[observability.FilmIDKey].AsInt64())
	assert.Equal(t, int64(7), attrs[observability.UserAttrKey].AsInt64())
	assert.Equal(t, int64(http.StatusNoContent), attrs["http.status_code"].AsInt64())
}

func TestRouteAttributes(t *testing.T) {
	values := map[string]string{"id": "3", "friendId": "9", "otherId": "x"}
	get := func(name string, _ ...string) string { return values[name] }

	attrs := routeAttributes("/api/users/:id/friends/:friendId", []string{"id", "friendId"}, get)
	assert.Equal(t, []attribute.KeyValue{observability.UserAttr(3), observability.FriendAttr(9)}, attrs)

	attrs = routeAttributes("/api/genres/:id", []string{"id"}, get)
	assert.Equal(t, []attribute.KeyValue{observability.GenreAttr(3)}, attrs)

	attrs = routeAttributes("/api/users/:id/friends/common/:otherId", []string{"otherId"}, get)
	assert.Empty(t, attrs, "non-numeric params are skipped")
}
