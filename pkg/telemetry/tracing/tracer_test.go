package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/pricebook/pkg/config"
)

func recordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewWithProvider(tp), recorder
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled", config: &config.TracingConfig{Enabled: false}},
		{
			name: "enabled always",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				ServiceName: "pricebook-test",
			},
			wantEnabled: true,
		},
		{
			name: "missing endpoint",
			config: &config.TracingConfig{
				Enabled: true,
				Sampler: SamplerAlways,
			},
			wantErr: true,
		},
		{
			name: "bad sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Endpoint: "localhost:4317",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{strategy: SamplerAlways},
		{strategy: SamplerNever},
		{strategy: SamplerRatio, ratio: 0.25},
		{strategy: "", ratio: 1},
		{strategy: SamplerRatio, ratio: 1.5, wantErr: true},
		{strategy: SamplerRatio, ratio: -0.1, wantErr: true},
		{strategy: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			s, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
			}
			if !tt.wantErr && s == nil {
				t.Error("expected sampler")
			}
		})
	}
}

func TestNoop(t *testing.T) {
	tracer := Noop()
	if tracer.Enabled() {
		t.Error("noop tracer should be disabled")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	defer span.End()
	if TraceID(ctx) != "" || SpanID(ctx) != "" {
		t.Error("noop span should not carry a valid span context")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	var nilTracer *Tracer
	if _, span := nilTracer.Start(context.Background(), "nil"); span == nil {
		t.Error("nil tracer should still return a span")
	}
}

func TestAttributesAndStatus(t *testing.T) {
	tracer, recorder := recordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "costs.Estimate")
	if TraceID(ctx) == "" || SpanID(ctx) == "" {
		t.Error("recording span should expose trace and span IDs")
	}
	SetSelectionAttributes(span, "Anthropic", "Claude", "3-Opus")
	SetTokenAttributes(span, 100, 50)
	SetCostAttributes(span, 0.00525, false)
	SetStatus(span, nil)
	span.End()

	_, failed := tracer.Start(context.Background(), "volume.Resolve")
	SetStatus(failed, errors.New("unknown provider"))
	failed.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(spans))
	}

	attrs := map[string]interface{}{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	want := map[string]interface{}{
		"pricebook.provider":     "Anthropic",
		"pricebook.version":      "3-Opus",
		"pricebook.tokens.total": int64(150),
		"pricebook.cost":         0.00525,
		"pricebook.self_hosted":  false,
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attribute %s = %v, want %v", k, attrs[k], v)
		}
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Error || len(spans[1].Events()) == 0 {
		t.Errorf("failed span should have error status and an exception event")
	}
}

func TestSetCostAttributes_SelfHosted(t *testing.T) {
	tracer, recorder := recordingTracer(t)

	_, span := tracer.Start(context.Background(), "self-hosted")
	SetCostAttributes(span, 0, true)
	span.End()

	for _, kv := range recorder.Ended()[0].Attributes() {
		if kv.Key == AttrCost {
			t.Error("self-hosted span must not carry a cost attribute")
		}
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tracer, recorder := recordingTracer(t)

	var sawTrace bool
	h := HTTPMiddleware(tracer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawTrace = TraceID(r.Context()) != ""
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/estimate", nil))

	if !sawTrace {
		t.Error("handler context should carry the request span")
	}
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("expected X-Trace-ID response header")
	}
	if spans := recorder.Ended(); len(spans) != 1 || spans[0].Name() != "POST /v1/estimate" {
		t.Errorf("unexpected spans: %v", spans)
	}
}
