package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/oukeidos/desksort/internal/models"
	"github.com/oukeidos/desksort/internal/openai"
)

type fakeChat struct {
	content string
	err     error
	during  func()
	got     openai.ChatRequest
}

func (f *fakeChat) ChatCompletion(_ context.Context, req openai.ChatRequest) (*openai.ChatResponse, error) {
	f.got = req
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	resp := &openai.ChatResponse{}
	if f.content != "" {
		resp.Choices = []openai.Choice{{Message: openai.Message{Role: "assistant", Content: f.content}}}
	}
	return resp, nil
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"json fence", "```json\n{\"categories\":{}}\n```", `{"categories":{}}`},
		{"bare fence", "here:\n```\n{\"a\":1}\n```\nthanks", `{"a":1}`},
		{"no fence", `{"categories":{"A":["x"]}}`, `{"categories":{"A":["x"]}}`},
		{"empty fence", "``````", "``````"},
		{"first of two", "```{\"a\":1}``` and ```{\"b\":2}```", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClassify_Success(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "classification_result.json")
	chat := &fakeChat{content: "```json\n{\"categories\":{\"Office\":[\"Word\"],\"Other\":[\"Zip\"]}}\n```"}
	c := New(chat, Options{DebugDumpPath: dump})

	res := c.Classify(context.Background(), []string{"Word", "Zip"})
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if !reflect.DeepEqual(res.Categories.Names(), []string{"Office", "Other"}) {
		t.Fatalf("categories = %v", res.Categories.Names())
	}
	if chat.got.Temperature != Temperature || len(chat.got.Messages) != 2 {
		t.Fatalf("request = %+v", chat.got)
	}
	if !strings.Contains(chat.got.Messages[1].Content, "Word, Zip") {
		t.Fatalf("user prompt missing names: %q", chat.got.Messages[1].Content)
	}

	data, err := os.ReadFile(dump)
	if err != nil {
		t.Fatalf("dump not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"categories\": {\n    \"Office\"") {
		t.Fatalf("dump not pretty-printed in order: %q", data)
	}
}

func TestClassify_EmptyAnswers(t *testing.T) {
	for _, content := range []string{"", `{"other":1}`, "null"} {
		c := New(&fakeChat{content: content}, Options{})
		res := c.Classify(context.Background(), []string{"a"})
		if res.Fallback || res.Categories == nil || len(res.Categories) != 0 {
			t.Fatalf("content %q: result = %+v", content, res)
		}
	}
}

func TestClassify_Fallback(t *testing.T) {
	names := []string{"z", "a", "m"}
	cases := []struct {
		name string
		chat *fakeChat
	}{
		{"upstream error", &fakeChat{err: errors.New("boom")}},
		{"malformed json", &fakeChat{content: "categories: none"}},
		{"wrong shape", &fakeChat{content: `{"categories":["a"]}`}},
		{"wrong members", &fakeChat{content: `{"categories":{"A":"a"}}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := New(tc.chat, Options{}).Classify(context.Background(), names)
			want := models.CategoryMap{{Name: models.UncategorizedCategory, Apps: names}}
			if !res.Fallback || !reflect.DeepEqual(res.Categories, want) {
				t.Fatalf("result = %+v", res)
			}
		})
	}
}

func TestClassify_InProgress(t *testing.T) {
	for _, fail := range []bool{false, true} {
		t.Run(fmt.Sprintf("fail=%v", fail), func(t *testing.T) {
			var c *Classifier
			var during bool
			chat := &fakeChat{content: `{"categories":{}}`}
			if fail {
				chat.err = errors.New("down")
			}
			chat.during = func() { during = c.InProgress() }
			c = New(chat, Options{})

			if c.InProgress() {
				t.Fatal("InProgress before call")
			}
			c.Classify(context.Background(), []string{"a"})
			if !during {
				t.Fatal("InProgress not observed during call")
			}
			if c.InProgress() {
				t.Fatal("InProgress after call")
			}
		})
	}
}

func TestClassify_HTTPNon200FallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := NewForEndpoint(Endpoint{APIKey: "k", BaseURL: server.URL, Model: "m"}, Options{})
	if err != nil {
		t.Fatalf("NewForEndpoint: %v", err)
	}
	res := c.Classify(context.Background(), []string{"a", "b"})
	if !res.Fallback {
		t.Fatalf("expected fallback, got %+v", res)
	}
}

func TestNewForEndpoint_Validation(t *testing.T) {
	if _, err := NewForEndpoint(Endpoint{Model: "m"}, Options{}); err == nil {
		t.Fatal("expected error without base url")
	}
	if _, err := NewForEndpoint(Endpoint{BaseURL: "http://x", Model: "m", Proxy: "::bad"}, Options{}); err == nil {
		t.Fatal("expected error for invalid proxy")
	}
}

func TestBuildMessages_Categories(t *testing.T) {
	msgs := BuildMessages([]string{"a"}, nil)
	for _, cat := range DefaultCategories {
		if !strings.Contains(msgs[1].Content, fmt.Sprintf("%q", cat)) {
			t.Errorf("default category %q missing from prompt", cat)
		}
	}
	msgs = BuildMessages([]string{"a"}, []string{"Games"})
	if !strings.Contains(msgs[1].Content, `"Games"`) || strings.Contains(msgs[1].Content, `"Office"`) {
		t.Fatalf("custom categories not used: %q", msgs[1].Content)
	}
	if msgs[0].Role != openai.RoleSystem || msgs[1].Role != openai.RoleUser {
		t.Fatalf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
}
