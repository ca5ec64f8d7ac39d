package webui_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/allylabs/allychat/core/agent"
	. "github.com/allylabs/allychat/webui"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sashabaranov/go-openai"
)

// canned fallback answers served when the agent fails; kept in sync with the
// handler by the exact-match assertions below.
var knownFallbacks = []string{
	"I'm having trouble connecting to my search tools right now. Based on what I know, the Xbox handheld console is expected to feature custom AMD hardware for optimal gaming performance on the go!",
	"Sorry, I'm experiencing some technical difficulties with my research capabilities. However, the Xbox handheld is rumored to support Xbox Game Pass natively, giving you access to hundreds of games instantly.",
	"I'm temporarily unable to access my search tools. From leaked information, the device might have excellent battery life, potentially 6-8 hours for most games.",
}

type llmScript struct {
	mu        sync.Mutex
	responses []string
	calls     int
	fail      bool
}

func (s *llmScript) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls++
		fail := s.fail
		response := ""
		if len(s.responses) > 0 {
			response = s.responses[0]
			if len(s.responses) > 1 {
				s.responses = s.responses[1:]
			}
		}
		s.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: response}},
			},
		})
	}
}

func (s *llmScript) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnv struct {
	app      *App
	llm      *llmScript
	hubHits  *atomic.Int32
	shutdown func()
}

func newTestEnv(script *llmScript, opts ...Option) *testEnv {
	llmSrv := httptest.NewServer(script.handler())

	hubHits := &atomic.Int32{}
	hubSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hubHits.Add(1)
		w.Write([]byte(agent.ReActChatTemplate))
	}))

	base := []Option{
		WithOpenAI("sk-test", llmSrv.URL+"/v1"),
		WithTavily("tvly-test", ""),
		WithPromptURL(hubSrv.URL),
		WithTimeout("10s"),
	}
	app := NewApp(append(base, opts...)...)

	return &testEnv{
		app:     app,
		llm:     script,
		hubHits: hubHits,
		shutdown: func() {
			llmSrv.Close()
			hubSrv.Close()
		},
	}
}

func postChat(app *App, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Fiber().Test(req, -1)
	Expect(err).ToNot(HaveOccurred())
	return resp
}

func decodeBody(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	out := map[string]any{}
	Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
	return out
}

var _ = Describe("Chat endpoint", func() {
	It("rejects a missing message without touching the agent", func() {
		env := newTestEnv(&llmScript{})
		defer env.shutdown()

		resp := postChat(env.app, `{}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(decodeBody(resp)["error"]).To(Equal("Message is required"))
		Expect(env.llm.count()).To(Equal(0))
	})

	It("rejects a whitespace-only message", func() {
		env := newTestEnv(&llmScript{})
		defer env.shutdown()

		resp := postChat(env.app, `{"message":"   "}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects requests when the model credential is absent", func() {
		env := newTestEnv(&llmScript{}, WithOpenAI("", ""))
		defer env.shutdown()

		resp := postChat(env.app, `{"message":"hi"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(decodeBody(resp)["error"]).To(Equal("OpenAI API key not configured"))
		Expect(env.llm.count()).To(Equal(0))
	})

	It("rejects requests when the search credential is absent", func() {
		env := newTestEnv(&llmScript{}, WithTavily("", ""))
		defer env.shutdown()

		resp := postChat(env.app, `{"message":"hi"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(decodeBody(resp)["error"]).To(Equal("Tavily API key not configured"))
		Expect(env.llm.count()).To(Equal(0))
	})

	It("returns the agent's answer with a timestamp", func() {
		env := newTestEnv(&llmScript{responses: []string{
			"Thought: Do I need to use a tool? No\nFinal Answer: The Ally X ships with an AMD Z2 Extreme.",
		}})
		defer env.shutdown()

		resp := postChat(env.app, `{"message":"what chip is inside?"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body := decodeBody(resp)
		Expect(body["response"]).To(Equal("The Ally X ships with an AMD Z2 Extreme."))
		Expect(body).NotTo(HaveKey("fallback"))

		_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
		Expect(err).ToNot(HaveOccurred())
	})

	It("salvages the raw model text from a parse failure as a soft success", func() {
		env := newTestEnv(&llmScript{responses: []string{
			"The handheld supports Game Pass natively.\n\nTroubleshooting URL: https://example.com/docs",
		}})
		defer env.shutdown()

		body := decodeBody(postChat(env.app, `{"message":"does it run game pass?"}`))
		Expect(body["response"]).To(Equal("The handheld supports Game Pass natively."))
		Expect(body).NotTo(HaveKey("fallback"))
	})

	It("never shows mixed action/answer output, falling back instead", func() {
		env := newTestEnv(&llmScript{responses: []string{
			"Action: tavily_search_results_json\nAction Input: ally specs\nFinal Answer: it has a Z2 Extreme",
		}})
		defer env.shutdown()

		resp := postChat(env.app, `{"message":"what chip is inside?"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body := decodeBody(resp)
		Expect(body["fallback"]).To(Equal(true))
		Expect(knownFallbacks).To(ContainElement(body["response"]))
		Expect(body["response"]).NotTo(ContainSubstring("Action Input"))
	})

	It("serves a canned fallback when the agent fails outright", func() {
		env := newTestEnv(&llmScript{fail: true})
		defer env.shutdown()

		resp := postChat(env.app, `{"message":"hi"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body := decodeBody(resp)
		Expect(body["fallback"]).To(Equal(true))
		Expect(knownFallbacks).To(ContainElement(body["response"]))
	})

	It("serves a canned fallback when the prompt store is down", func() {
		script := &llmScript{responses: []string{"Final Answer: unused"}}
		llmSrv := httptest.NewServer(script.handler())
		defer llmSrv.Close()

		deadHub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer deadHub.Close()

		app := NewApp(
			WithOpenAI("sk-test", llmSrv.URL+"/v1"),
			WithTavily("tvly-test", ""),
			WithPromptURL(deadHub.URL),
		)

		body := decodeBody(postChat(app, `{"message":"hi"}`))
		Expect(body["fallback"]).To(Equal(true))
		Expect(knownFallbacks).To(ContainElement(body["response"]))
		Expect(script.count()).To(Equal(0))
	})

	It("fetches the prompt template once across requests", func() {
		env := newTestEnv(&llmScript{responses: []string{"Final Answer: sure"}})
		defer env.shutdown()

		postChat(env.app, `{"message":"one"}`)
		postChat(env.app, `{"message":"two"}`)
		Expect(env.hubHits.Load()).To(Equal(int32(1)))
	})

	It("feeds the trailing history window to the agent", func() {
		env := newTestEnv(&llmScript{responses: []string{"Final Answer: noted"}})
		defer env.shutdown()

		history := `[{"id":1,"text":"hello","isBot":false,"timestamp":"2026-08-01T10:00:00Z"},
			{"id":2,"text":"hi, ask me anything","isBot":true,"timestamp":"2026-08-01T10:00:05Z"}]`
		resp := postChat(env.app, `{"message":"next question","chatHistory":`+history+`}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})
})

var _ = Describe("Status endpoint", func() {
	It("returns an identical static payload across calls", func() {
		env := newTestEnv(&llmScript{})
		defer env.shutdown()

		read := func() string {
			resp, err := env.app.Fiber().Test(httptest.NewRequest(http.MethodGet, "/api/chat", nil), -1)
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())
			return string(body)
		}

		first := read()
		Expect(first).To(ContainSubstring(`"status":"healthy"`))
		Expect(read()).To(Equal(first))
	})
})

var _ = Describe("Landing page", func() {
	It("serves the marketing page", func() {
		env := newTestEnv(&llmScript{})
		defer env.shutdown()

		resp, err := env.app.Fiber().Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("ROG Xbox Ally"))
	})
})
