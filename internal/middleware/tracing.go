package middleware

import (
	"strconv"
	"strings"

	"filmorate/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware starts a server span per request. Once the route has been
// matched the span is renamed to the route template and the ids in the path are
// attached as user, friend, film or genre attributes.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.url", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		if requestID, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", requestID))
		}
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-ID", span.SpanContext().TraceID().String())
		}
		c.SetUserContext(ctx)

		err := c.Next()

		if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
			span.SetName(c.Method() + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", route.Path))
			span.SetAttributes(routeAttributes(route.Path, route.Params, c.Params)...)
		}
		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		return err
	}
}

// routeAttributes maps the numeric path params of a matched route to domain span
// attributes. ":id" names the resource of the route's first segment under /api.
func routeAttributes(routePath string, params []string, value func(string, ...string) string) []attribute.KeyValue {
	resource := ""
	if rest, ok := strings.CutPrefix(routePath, "/api/"); ok {
		resource, _, _ = strings.Cut(rest, "/")
	}

	attrs := make([]attribute.KeyValue, 0, len(params))
	for _, name := range params {
		id, err := strconv.ParseUint(value(name), 10, 64)
		if err != nil {
			continue
		}
		switch {
		case name == "id" && resource == "users":
			attrs = append(attrs, observability.UserAttr(uint(id)))
		case name == "id" && resource == "films":
			attrs = append(attrs, observability.FilmAttr(uint(id)))
		case name == "id" && resource == "genres":
			attrs = append(attrs, observability.GenreAttr(uint(id)))
		case name == "userId":
			attrs = append(attrs, observability.UserAttr(uint(id)))
		case name == "friendId" || name == "otherId":
			attrs = append(attrs, observability.FriendAttr(uint(id)))
		}
	}
	return attrs
}
