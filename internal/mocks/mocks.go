package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storybook/internal/game"
)

// Completer mocks director.Completer
type Completer struct {
	mock.Mock
}

func (m *Completer) Complete(ctx context.Context, turns []game.Turn) (string, error) {
	args := m.Called(ctx, turns)
	return args.String(0), args.Error(1)
}

// Illustrator mocks director.Illustrator
type Illustrator struct {
	mock.Mock
}

func (m *Illustrator) Generate(ctx context.Context, prompt string) (*game.Illustration, error) {
	args := m.Called(ctx, prompt)
	img, _ := args.Get(0).(*game.Illustration)
	return img, args.Error(1)
}

// Speaker mocks api.Speaker
type Speaker struct {
	mock.Mock
}

func (m *Speaker) Synthesize(ctx context.Context, text string, lang game.Language) ([]byte, error) {
	args := m.Called(ctx, text, lang)
	audio, _ := args.Get(0).([]byte)
	return audio, args.Error(1)
}

// TurnRunner mocks api.TurnRunner
type TurnRunner struct {
	mock.Mock
}

func (m *TurnRunner) RunTurn(ctx context.Context, profile game.PlayerProfile, history game.History) (*game.StoryBeat, error) {
	args := m.Called(ctx, profile, history)
	beat, _ := args.Get(0).(*game.StoryBeat)
	return beat, args.Error(1)
}

func NewCompleter(t mock.TestingT) *Completer {
	m := &Completer{}
	m.Test(t)
	return m
}

func NewIllustrator(t mock.TestingT) *Illustrator {
	m := &Illustrator{}
	m.Test(t)
	return m
}

func NewSpeaker(t mock.TestingT) *Speaker {
	m := &Speaker{}
	m.Test(t)
	return m
}

func NewTurnRunner(t mock.TestingT) *TurnRunner {
	m := &TurnRunner{}
	m.Test(t)
	return m
}
