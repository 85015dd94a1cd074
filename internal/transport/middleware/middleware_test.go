package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("mints a trace id when none is sent", func() {
		w := httptest.NewRecorder()

		RequestID(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Header().Get(TraceIDHeader)).To(HaveLen(36))
	})

	It("echoes an inbound trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceIDHeader, "trace-123")
		w := httptest.NewRecorder()

		RequestID(okHandler).ServeHTTP(w, req)

		Expect(w.Header().Get(TraceIDHeader)).To(Equal("trace-123"))
	})
})

var _ = Describe("CORS", func() {
	It("echoes an allowed origin with credentials", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		CORS("http://localhost:3000, https://app.example.com")(okHandler).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("omits the header for other origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		CORS("http://localhost:3000")(okHandler).ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("never pairs a wildcard origin with credentials", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		CORS("*")(okHandler).ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(BeEmpty())
	})

	It("adds nothing when no origins are configured", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		CORS(" ")(okHandler).ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("answers preflight requests without calling the handler", func() {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/expenses", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "PATCH")
		w := httptest.NewRecorder()

		CORS("https://app.example.com")(next).ServeHTTP(w, req)

		Expect(called).To(BeFalse())
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PATCH"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a JSON 500", func() {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })
		w := httptest.NewRecorder()

		RecoveryMiddleware(logger)(boom).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["type"]).To(Equal("INTERNAL_ERROR"))
		Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("filters credentials and free text from logged bodies", func() {
		body := `{"email":"a@b.com","password":"hunter22","notes":"doctor visit","amount":10}`

		filtered := filterSensitiveBody([]byte(body))

		Expect(filtered).NotTo(ContainSubstring("hunter22"))
		Expect(filtered).NotTo(ContainSubstring("doctor visit"))
		Expect(filtered).To(ContainSubstring("a@b.com"))
	})

	It("masks the authorization header", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer secret")
		h.Set("Accept", "application/json")

		filtered := filterSensitiveHeaders(h)

		Expect(filtered["Authorization"]).To(Equal("[FILTERED]"))
		Expect(filtered["Accept"]).To(Equal("application/json"))
	})

	It("passes the request body through to the handler", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		var seen string
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			_, _ = b.ReadFrom(r.Body)
			seen = b.String()
			w.WriteHeader(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(`{"amount":5}`))
		w := httptest.NewRecorder()
		LoggingMiddleware(logger)(echo).ServeHTTP(w, req)

		Expect(seen).To(Equal(`{"amount":5}`))
		Expect(w.Code).To(Equal(http.StatusCreated))
	})
})
