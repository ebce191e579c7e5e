package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRouter_EmitsServerSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// The provider must be installed before the router is built: the
	// instrumentation binds to it at construction time.
	srv := newTestServer(t)

	var b BasketResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/baskets", CreateBasketRequest{BuyerID: "buyer1"}, &b)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	spans := recorder.Ended()
	require.NotEmpty(t, spans, "every request must produce a server span")
	assert.Equal(t, "checkout.http", spans[0].Name())
	assert.True(t, spans[0].SpanContext().HasTraceID())
}
