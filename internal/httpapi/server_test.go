package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"playmate/internal/llmjson"
	"playmate/internal/metrics"
	"playmate/internal/quiz"
	"playmate/internal/recommend"
	"playmate/internal/services"
)

type fakeRecommender struct {
	got    recommend.Request
	result *recommend.Result
	err    error
}

func (f *fakeRecommender) Run(_ context.Context, req recommend.Request) (*recommend.Result, error) {
	f.got = req
	return f.result, f.err
}

type fakeDirect struct {
	profile string
	result  *recommend.DirectResult
	err     error
}

func (f *fakeDirect) Recommend(_ context.Context, profileText string) (*recommend.DirectResult, error) {
	f.profile = profileText
	return f.result, f.err
}

type fakeLLM struct {
	input string
	reply string
	err   error
}

func (f *fakeLLM) Complete(_ context.Context, _, input string) (string, error) {
	f.input = input
	return f.reply, f.err
}

type fakePicker struct {
	movie *quiz.Movie
	err   error
}

func (f *fakePicker) Pick(context.Context, quiz.Result) (*quiz.Movie, error) {
	return f.movie, f.err
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	srv := New("127.0.0.1:0", Deps{})
	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestTokenRequiredForAPIRoutes(t *testing.T) {
	srv := New("127.0.0.1:0", Deps{Token: "secret"})
	h := srv.Handler()

	if rec := do(t, h, http.MethodGet, "/api/quiz", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/quiz", "", map[string]string{"Authorization": "Bearer wrong"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/quiz", "", map[string]string{"Authorization": "Bearer secret"}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz must stay open, got %d", rec.Code)
	}
}

func TestRecommendationsPassesProfileAndCounts(t *testing.T) {
	rec := &fakeRecommender{result: &recommend.Result{
		RequestID: "req-1",
		Recommendations: []recommend.Recommendation{
			{Fact: recommend.Fact{ID: 7, Name: "Stardew Valley"}, Reason: "느긋함", TimeFit: "30분"},
		},
	}}
	srv := New("127.0.0.1:0", Deps{Recommender: rec})
	body := `{"profile":{"preferred_genres":["퍼즐"],"platforms":["Switch"],"hours_per_day":1.5},"candidate_count":10,"fact_limit":8}`
	resp := do(t, srv.Handler(), http.MethodPost, "/api/recommendations", body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if rec.got.CandidateCount != 10 || rec.got.FactLimit != 8 {
		t.Fatalf("counts not passed through: %+v", rec.got)
	}
	if rec.got.Profile.HoursPerDay != 1.5 || len(rec.got.Profile.Platforms) != 1 || rec.got.Profile.Platforms[0] != "Switch" {
		t.Fatalf("profile not passed through: %+v", rec.got.Profile)
	}

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	recs, ok := out["recommendations"].([]any)
	if !ok || len(recs) != 1 {
		t.Fatalf("unexpected recommendations %v", out["recommendations"])
	}
	first := recs[0].(map[string]any)
	if first["name"] != "Stardew Valley" || first["reason"] != "느긋함" {
		t.Fatalf("unexpected recommendation %v", first)
	}
}

func TestRecommendationsValidation(t *testing.T) {
	rec := &fakeRecommender{}
	srv := New("127.0.0.1:0", Deps{Recommender: rec})
	cases := map[string]string{
		"hours out of range": `{"profile":{"hours_per_day":30}}`,
		"unknown field":      `{"profile":{},"surprise":true}`,
		"negative count":     `{"profile":{},"candidate_count":-1}`,
		"malformed":          `{"profile":`,
		"empty body":         ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := do(t, srv.Handler(), http.MethodPost, "/api/recommendations", body, nil)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if got := decodeError(t, resp); got.Kind != "validation" {
				t.Fatalf("expected validation kind, got %+v", got)
			}
		})
	}
}

func TestRecommendationsErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"no match", &recommend.NoMatchError{Candidates: 18, Platforms: []string{"Switch"}}, http.StatusNotFound, "not_found"},
		{"schema", &recommend.SchemaError{Stage: "generate", Reason: "wrong count"}, http.StatusBadGateway, "validation"},
		{"decode", &llmjson.DecodeError{Snippet: "x", Err: errors.New("bad")}, http.StatusBadGateway, "validation"},
		{"upstream", &recommend.UpstreamError{Op: "generate", Err: errors.New("boom")}, http.StatusBadGateway, "transient"},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "llm", "missing key", nil), http.StatusInternalServerError, "configuration"},
		{"deadline", &recommend.UpstreamError{Op: "select", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, "transient"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := New("127.0.0.1:0", Deps{Recommender: &fakeRecommender{err: tc.err}})
			resp := do(t, srv.Handler(), http.MethodPost, "/api/recommendations", `{"profile":{}}`, nil)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			body := decodeError(t, resp)
			if body.Kind != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, body.Kind)
			}
			if body.Error != recommend.UserMessage(tc.err) {
				t.Fatalf("expected user message, got %q", body.Error)
			}
		})
	}
}

func TestServiceUnavailableWhenNotConfigured(t *testing.T) {
	srv := New("127.0.0.1:0", Deps{})
	for _, path := range []string{"/api/recommendations", "/api/direct", "/api/chat"} {
		resp := do(t, srv.Handler(), http.MethodPost, path, `{}`, nil)
		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, resp.Code)
		}
	}
}

func TestDirectCompilesProfile(t *testing.T) {
	direct := &fakeDirect{result: &recommend.DirectResult{Summary: "요약"}}
	srv := New("127.0.0.1:0", Deps{Direct: direct})
	resp := do(t, srv.Handler(), http.MethodPost, "/api/direct", `{"profile":{"preferred_genres":["RPG"]}}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	want := recommend.CompileProfile(recommend.Profile{PreferredGenres: []string{"RPG"}})
	if direct.profile != want {
		t.Fatalf("expected compiled profile\n%s\ngot\n%s", want, direct.profile)
	}
	if !strings.Contains(resp.Body.String(), "요약") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestQuizQuestionsAndScore(t *testing.T) {
	picker := &fakePicker{movie: &quiz.Movie{ID: 13, Title: "Forrest Gump"}}
	srv := New("127.0.0.1:0", Deps{Movies: picker})
	h := srv.Handler()

	resp := do(t, h, http.MethodGet, "/api/quiz", "", nil)
	var questions struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &questions); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(questions.Questions) != len(quiz.MovieQuiz.Questions) {
		t.Fatalf("expected %d questions, got %d", len(quiz.MovieQuiz.Questions), len(questions.Questions))
	}

	resp = do(t, h, http.MethodPost, "/api/quiz", `{"answers":[0,0,0,0,0]}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out quizResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Winner != quiz.Drama || out.WinnerLabel != quiz.Drama.Label() {
		t.Fatalf("unexpected winner %+v", out)
	}
	if out.Movie == nil || out.Movie.Title != "Forrest Gump" || out.MovieError != "" {
		t.Fatalf("unexpected movie %+v / %q", out.Movie, out.MovieError)
	}
}

func TestQuizMovieFailureKeepsResult(t *testing.T) {
	picker := &fakePicker{err: services.Wrap(services.ErrTransient, "quiz", "discover movies", "드라마", errors.New("timeout"))}
	srv := New("127.0.0.1:0", Deps{Movies: picker})
	resp := do(t, srv.Handler(), http.MethodPost, "/api/quiz", `{"answers":[0,0,0,0,0]}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out quizResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Movie != nil || out.MovieError == "" || out.Winner != quiz.Drama {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestQuizRejectsBadAnswers(t *testing.T) {
	srv := New("127.0.0.1:0", Deps{})
	for _, body := range []string{`{"answers":[0,0]}`, `{"answers":[0,0,0,0,9]}`, `{"answers":[]}`, `{"answers":[-1,0,0,0,0]}`} {
		resp := do(t, srv.Handler(), http.MethodPost, "/api/quiz", body, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.Code)
		}
	}
}

func TestChatStartsConversationAndAppendsReply(t *testing.T) {
	llm := &fakeLLM{reply: "포탈 2를 추천해요"}
	srv := New("127.0.0.1:0", Deps{Chat: llm})
	resp := do(t, srv.Handler(), http.MethodPost, "/api/chat", `{"profile":{},"message":"협동 게임 추천해줘"}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out chatResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Reply != "포탈 2를 추천해요" {
		t.Fatalf("unexpected reply %q", out.Reply)
	}
	if len(out.Messages) != 3 || out.Messages[1].Content != "협동 게임 추천해줘" {
		t.Fatalf("unexpected messages %+v", out.Messages)
	}
	if !strings.HasSuffix(llm.input, "USER: 협동 게임 추천해줘") {
		t.Fatalf("unexpected transcript %q", llm.input)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	srv := New("127.0.0.1:0", Deps{Chat: &fakeLLM{err: errors.New("down")}})
	resp := do(t, srv.Handler(), http.MethodPost, "/api/chat", `{"message":"hi"}`, nil)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	srv := New("127.0.0.1:0", Deps{Chat: &fakeLLM{reply: "ok"}})
	huge := `{"message":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	resp := do(t, srv.Handler(), http.MethodPost, "/api/chat", huge, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(decodeError(t, resp).Error, "exceeds") {
		t.Fatalf("expected size message, got %s", resp.Body.String())
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := New("127.0.0.1:0", Deps{Metrics: metrics.New(reg), Gatherer: reg})
	h := srv.Handler()
	do(t, h, http.MethodGet, "/api/quiz", "", nil)

	resp := do(t, h, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `playmate_http_requests_total{route="/api/quiz",status="200"} 1`) {
		t.Fatalf("expected quiz request counter in\n%s", body)
	}
}

func TestStartAndStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := New("127.0.0.1:0", Deps{})
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, buf.String())
	}
}
