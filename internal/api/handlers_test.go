package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storybook/internal/game"
	"storybook/internal/game/director"
	"storybook/internal/game/locale"
	"storybook/internal/mocks"
	"storybook/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	turns  *mocks.TurnRunner
	speech *mocks.Speaker
}

func newTestServer(t *testing.T) *testServer {
	turns := mocks.NewTurnRunner(t)
	speech := mocks.NewSpeaker(t)
	h := NewHandler(turns, speech, locale.Default(), nil)
	t.Cleanup(func() {
		turns.AssertExpectations(t)
		speech.AssertExpectations(t)
	})
	return &testServer{
		router: NewRouter(h, RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, nil),
		turns:  turns,
		speech: speech,
	}
}

func (s *testServer) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) validationErrorResponse {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp validationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	return resp
}

func hasDetail(details []fieldError, field, rule string) bool {
	for _, d := range details {
		if d.Field == field && d.Rule == rule {
			return true
		}
	}
	return false
}

func validStory() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Alice",
		"gender":   "girl",
		"language": "en",
		"theme":    "enchanted_forest",
		"history":  []interface{}{},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStory_FirstBeat(t *testing.T) {
	s := newTestServer(t)
	beat := &game.StoryBeat{
		StoryText:    "Alice steps into the glade.",
		Choices:      []string{"Follow the fox", "Climb the oak", "Call out"},
		ImagePrompt:  "a girl in a glade",
		Illustration: game.RemoteIllustration("https://img.example/1.png"),
	}
	s.turns.On("RunTurn", mock.Anything, game.PlayerProfile{
		Name: "Alice", Gender: game.Girl, Language: game.English, Theme: game.EnchantedForest,
	}, game.History{}).Return(beat, nil).Once()

	w := s.do(http.MethodPost, "/api/story", validStory())
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Alice steps into the glade.", got["storyText"])
	assert.Equal(t, "https://img.example/1.png", got["imageUrl"])
	assert.Len(t, got["choices"], 3)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStory_HistoryAndCharacterAreMapped(t *testing.T) {
	s := newTestServer(t)
	body := validStory()
	body["name"] = "<b>Bob</b>"
	body["gender"] = "boy"
	body["character"] = map[string]string{
		"hairColor": "red", "hairStyle": "braids", "outfitStyle": "wizard", "favoriteColor": "purple",
	}
	body["history"] = []map[string]interface{}{{
		"storyText": "Once upon a time",
		"choices":   []string{"Go left", "Go right"},
		"imageUrl":  "https://img.example/0.png",
		"selected":  "Go left",
	}, {
		"storyText": "Then",
		"choices":   []string{"Sing", "Dance"},
		"imageData": "data:image/png;base64,AAAA",
		"selected":  "Sing",
	}}

	s.turns.On("RunTurn", mock.Anything, mock.MatchedBy(func(p game.PlayerProfile) bool {
		return p.Name == "Bob" && p.Character != nil && p.Character.HairStyle == game.HairBraids
	}), mock.MatchedBy(func(h game.History) bool {
		return len(h) == 2 &&
			h[0].Selected == "Go left" &&
			h[0].Illustration != nil && h[0].Illustration.URL == "https://img.example/0.png" &&
			h[1].Illustration == nil
	})).Return(&game.StoryBeat{StoryText: "The end."}, nil).Once()

	w := s.do(http.MethodPost, "/api/story", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"storyText":"The end.","choices":[],"imagePrompt":""}`, w.Body.String())
}

func TestStory_SessionHeaderReachesContext(t *testing.T) {
	s := newTestServer(t)
	s.turns.On("RunTurn", mock.MatchedBy(func(ctx context.Context) bool {
		return observability.SessionIDFromContext(ctx) == "story-42"
	}), mock.Anything, mock.Anything).Return(&game.StoryBeat{StoryText: "x"}, nil).Once()

	w := s.do(http.MethodPost, "/api/story", validStory(), sessionHeader, "story-42")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStory_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		field  string
		rule   string
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }, "name", "required"},
		{"name only markup", func(b map[string]interface{}) { b["name"] = "<script></script>  " }, "name", "required"},
		{"bad gender", func(b map[string]interface{}) { b["gender"] = "dragon" }, "gender", "oneof"},
		{"bad language", func(b map[string]interface{}) { b["language"] = "fr" }, "language", "oneof"},
		{"bad theme", func(b map[string]interface{}) { b["theme"] = "haunted_house" }, "theme", "oneof"},
		{"bad character", func(b map[string]interface{}) {
			b["character"] = map[string]string{"hairColor": "green", "hairStyle": "long", "outfitStyle": "wizard", "favoriteColor": "red"}
		}, "character.hairColor", "oneof"},
		{"beat without text", func(b map[string]interface{}) {
			b["history"] = []map[string]interface{}{{"choices": []string{"a"}, "selected": "a"}}
		}, "history[0].storyText", "required"},
		{"missing history", func(b map[string]interface{}) { delete(b, "history") }, "history", "required"},
		{"null history", func(b map[string]interface{}) { b["history"] = nil }, "history", "required"},
		{"selected not offered", func(b map[string]interface{}) {
			b["history"] = []map[string]interface{}{
				{"storyText": "Once.", "choices": []string{"Go left", "Go right"}, "selected": "Go left"},
				{"storyText": "Then.", "choices": []string{"Follow the butterfly", "Open the door"}, "selected": "Fly to the moon"},
			}
		}, "history[1].selected", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			body := validStory()
			tt.mutate(body)

			resp := decodeValidation(t, s.do(http.MethodPost, "/api/story", body))
			assert.True(t, hasDetail(resp.Details, tt.field, tt.rule), "details: %+v", resp.Details)
		})
	}
}

func TestStory_SelectedMustMatchCase(t *testing.T) {
	s := newTestServer(t)
	body := validStory()
	body["history"] = []map[string]interface{}{
		{"storyText": "Once.", "choices": []string{"Follow the butterfly", "Open the door"}, "selected": "follow the butterfly"},
	}

	resp := decodeValidation(t, s.do(http.MethodPost, "/api/story", body))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, fieldError{
		Field:   "history[0].selected",
		Rule:    "oneof",
		Message: "must be one of the beat's choices",
	}, resp.Details[0])
	s.turns.AssertNotCalled(t, "RunTurn", mock.Anything, mock.Anything, mock.Anything)
}

func TestStory_MalformedJSON(t *testing.T) {
	s := newTestServer(t)
	resp := decodeValidation(t, s.do(http.MethodPost, "/api/story", `{"name": "Alice",`))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "body", resp.Details[0].Field)
}

func TestStory_FailuresAreGeneric500(t *testing.T) {
	for _, err := range []error{
		director.ErrNoStory,
		fmt.Errorf("%w: unexpected end of JSON input", director.ErrMalformedResponse),
		errors.New("story completion failed: connection reset"),
	} {
		t.Run(err.Error(), func(t *testing.T) {
			s := newTestServer(t)
			s.turns.On("RunTurn", mock.Anything, mock.Anything, mock.Anything).Return(nil, err).Once()

			w := s.do(http.MethodPost, "/api/story", validStory())
			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t,
				`{"error":"Internal server error","message":"Failed to generate the next story beat"}`,
				w.Body.String())
		})
	}
}

func TestTTS(t *testing.T) {
	s := newTestServer(t)
	audio := []byte("ID3-mp3-bytes")
	s.speech.On("Synthesize", mock.Anything, "สวัสดี", game.Thai).Return(audio, nil).Once()

	w := s.do(http.MethodPost, "/api/tts", map[string]string{"text": "สวัสดี", "language": "th"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprint(len(audio)), w.Header().Get("Content-Length"))
	assert.Equal(t, audio, w.Body.Bytes())
}

func TestTTS_Validation(t *testing.T) {
	s := newTestServer(t)
	resp := decodeValidation(t, s.do(http.MethodPost, "/api/tts", map[string]string{"language": "de"}))
	assert.True(t, hasDetail(resp.Details, "text", "required"))
	assert.True(t, hasDetail(resp.Details, "language", "oneof"))
}

func TestTTS_ProviderFailure(t *testing.T) {
	s := newTestServer(t)
	s.speech.On("Synthesize", mock.Anything, "hello", game.English).
		Return(nil, errors.New("speech synthesis failed: 503")).Once()

	w := s.do(http.MethodPost, "/api/tts", map[string]string{"text": "hello", "language": "en"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate speech","message":"speech synthesis failed: 503"}`, w.Body.String())
}

func TestIntro(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/story/intro?name=Mali&language=th", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp introResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, locale.Default().InitialTransitions("Mali", game.Thai), resp.Transitions)
	assert.Contains(t, resp.Transitions[0], "Mali")

	resp2 := decodeValidation(t, s.do(http.MethodGet, "/api/story/intro?language=xx", nil))
	assert.True(t, hasDetail(resp2.Details, "name", "required"))
	assert.True(t, hasDetail(resp2.Details, "language", "oneof"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/story", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
