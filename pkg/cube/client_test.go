package cube_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cubestack/cubemcp/pkg/config"
	"github.com/cubestack/cubemcp/pkg/cube"
	"github.com/cubestack/cubemcp/pkg/logger"
)

var _ = Describe("Client", func() {
	const secret = "test-signing-secret"

	newConfig := func(apiURL string) *config.Config {
		return &config.Config{
			APIKey:     secret,
			TenantName: "acme",
			AgentID:    "agent-1",
			APIURL:     apiURL,
		}
	}

	Describe("StreamChat", func() {
		It("POSTs the chat body to the interpolated agent path", func() {
			var gotPath, gotMethod string
			var gotBody map[string]string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotMethod = r.Method
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			client := cube.NewClient(newConfig(srv.URL), logger.Nop())
			body, err := client.StreamChat(context.Background(), "chat-42", "how many users signed up?")
			Expect(err).NotTo(HaveOccurred())
			defer body.Close()

			Expect(gotMethod).To(Equal(http.MethodPost))
			Expect(gotPath).To(Equal("/api/v1/public/acme/agents/agent-1/chat/stream-chat-state"))
			Expect(gotBody).To(HaveKeyWithValue("chatId", "chat-42"))
			Expect(gotBody).To(HaveKeyWithValue("input", "how many users signed up?"))
		})

		It("attaches a bearer credential signed with the API key", func() {
			var gotAuth string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			client := cube.NewClient(newConfig(srv.URL), logger.Nop())
			body, err := client.StreamChat(context.Background(), "chat-42", "hello")
			Expect(err).NotTo(HaveOccurred())
			defer body.Close()

			Expect(gotAuth).To(HavePrefix("Bearer "))

			signed := strings.TrimPrefix(gotAuth, "Bearer ")
			token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(token.Valid).To(BeTrue())
		})

		It("hands back the open response body as a stream", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, `{"role":"assistant","content":"hi","isDelta":false}`+"\n")
			}))
			defer srv.Close()

			client := cube.NewClient(newConfig(srv.URL), logger.Nop())
			body, err := client.StreamChat(context.Background(), "chat-42", "hello")
			Expect(err).NotTo(HaveOccurred())
			defer body.Close()

			data, err := io.ReadAll(body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"content":"hi"`))
		})

		It("returns an UpstreamError carrying status on non-2xx responses", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "tenant not found", http.StatusForbidden)
			}))
			defer srv.Close()

			client := cube.NewClient(newConfig(srv.URL), logger.Nop())
			_, err := client.StreamChat(context.Background(), "chat-42", "hello")
			Expect(err).To(HaveOccurred())

			var upErr *cube.UpstreamError
			Expect(errors.As(err, &upErr)).To(BeTrue())
			Expect(upErr.StatusCode).To(Equal(http.StatusForbidden))
			Expect(upErr.Body).To(ContainSubstring("tenant not found"))
		})

		It("fails with a MissingFieldError before any request when unconfigured", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Fail("no request expected")
			}))
			defer srv.Close()

			cfg := newConfig(srv.URL)
			cfg.APIKey = ""

			client := cube.NewClient(cfg, logger.Nop())
			_, err := client.StreamChat(context.Background(), "chat-42", "hello")
			Expect(err).To(HaveOccurred())

			var missing *config.MissingFieldError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.EnvVar).To(Equal("CUBE_API_KEY"))
		})
	})
})
