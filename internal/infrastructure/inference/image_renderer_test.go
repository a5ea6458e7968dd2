package inference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

func newRenderer(baseURL, model string) *ImageRenderer {
	return NewImageRenderer(&config.Config{
		ImageBaseURL:      baseURL,
		ImageWidth:        1024,
		ImageHeight:       768,
		ImageModel:        model,
		ImageExtraParams:  "nologo=true",
		ImageProbeTimeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestBuildURLEncodesPromptDeterministically(t *testing.T) {
	renderer := newRenderer("https://image.example.com/prompt/", "")

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "plain prompt",
			prompt: "a cat",
			want:   "https://image.example.com/prompt/a%20cat?width=1024&height=768&nologo=true",
		},
		{
			name:   "reserved characters",
			prompt: "cats & dogs? 50/50",
			want:   "https://image.example.com/prompt/cats%20&%20dogs%3F%2050%2F50?width=1024&height=768&nologo=true",
		},
		{
			name:   "unicode prompt",
			prompt: "猫",
			want:   "https://image.example.com/prompt/%E7%8C%AB?width=1024&height=768&nologo=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderer.BuildURL(tt.prompt)
			if got != tt.want {
				t.Errorf("BuildURL(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
			if again := renderer.BuildURL(tt.prompt); again != got {
				t.Errorf("BuildURL is not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestBuildURLIncludesModelWhenConfigured(t *testing.T) {
	renderer := newRenderer("https://image.example.com", "flux")
	got := renderer.BuildURL("a cat")
	want := "https://image.example.com/a%20cat?width=1024&height=768&nologo=true&model=flux"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}

func TestProbeAcceptsSuccessStatus(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	renderer := newRenderer(server.URL, "")
	if err := renderer.Probe(context.Background(), renderer.BuildURL("a cat")); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if gotMethod != http.MethodHead {
		t.Errorf("probe used method %q, want HEAD", gotMethod)
	}
}

func TestProbeRejectionIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	renderer := newRenderer(server.URL, "")
	err := renderer.Probe(context.Background(), renderer.BuildURL("a cat"))
	if err == nil {
		t.Fatal("expected error for 403 probe response")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeExternal {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeExternal)
	}
}

func TestProbeTransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	renderer := newRenderer(url, "")
	err := renderer.Probe(context.Background(), renderer.BuildURL("a cat"))
	if err == nil {
		t.Fatal("expected error when renderer is unreachable")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeUnavailable {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeUnavailable)
	}
}

func TestProbeTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	renderer := NewImageRenderer(&config.Config{
		ImageBaseURL:      server.URL,
		ImageWidth:        1024,
		ImageHeight:       768,
		ImageProbeTimeout: 50 * time.Millisecond,
	}, zerolog.Nop())

	err := renderer.Probe(context.Background(), renderer.BuildURL("a cat"))
	if err == nil {
		t.Fatal("expected error when probe times out")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeUnavailable {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeUnavailable)
	}
}
