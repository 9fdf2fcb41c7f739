package llm

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook/internal/game"
)

func TestImageService_RemoteURL(t *testing.T) {
	fake, srv := newFakeOpenAI(t)
	fake.bodies["images/generations"] = `{"created":1,"data":[{"url":"https://img.example/a.png"}]}`

	svc := NewImageService(NewClient(testClient(srv)), ImageConfig{Model: "dall-e-2", Size: "512x512", ResponseFormat: ImageFormatURL}, nil)
	img, err := svc.Generate(context.Background(), "  a fox in a forest ")
	require.NoError(t, err)
	assert.Equal(t, game.RemoteIllustration("https://img.example/a.png"), img)

	req := fake.requests["images/generations"]
	assert.Equal(t, "a fox in a forest", req["prompt"])
	assert.Equal(t, "dall-e-2", req["model"])
	assert.Equal(t, "512x512", req["size"])
	assert.EqualValues(t, 1, req["n"])
	assert.Equal(t, "url", req["response_format"])
}

func TestImageService_InlineData(t *testing.T) {
	fake, srv := newFakeOpenAI(t)
	fake.bodies["images/generations"] = `{"created":1,"data":[{"b64_json":"iVBORw0KGgo="}]}`

	svc := NewImageService(NewClient(testClient(srv)), ImageConfig{Model: "dall-e-2", Size: "512x512", ResponseFormat: ImageFormatBase64}, nil)
	img, err := svc.Generate(context.Background(), "a fox")
	require.NoError(t, err)
	assert.Equal(t, game.InlineIllustrationKind, img.Kind)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", img.Data)
	assert.Empty(t, img.URL)
}

func TestImageService_Errors(t *testing.T) {
	fake, srv := newFakeOpenAI(t)
	svc := NewImageService(NewClient(testClient(srv)), ImageConfig{Model: "dall-e-2", Size: "512x512"}, nil)

	_, err := svc.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	fake.bodies["images/generations"] = `{"created":1,"data":[]}`
	_, err = svc.Generate(context.Background(), "a fox")
	assert.ErrorIs(t, err, ErrEmptyImage)

	fake.status = http.StatusBadRequest
	fake.bodies["images/generations"] = `{"error":{"message":"content policy","type":"invalid_request_error"}}`
	_, err = svc.Generate(context.Background(), "a fox")
	assert.ErrorContains(t, err, "image generation failed")
}
