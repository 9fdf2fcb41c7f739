// Package locale holds the language-specific prompt blocks. The composer only
// chooses which block to use; it never looks inside them.
package locale

import (
	"strings"

	"storybook/internal/game"
)

// Block identifies one pre-written prompt fragment.
type Block string

const (
	LanguageInstruction Block = "language_instruction"
	ChoiceRules         Block = "choice_rules"
	JSONExample         Block = "json_example"
)

// Pack is every block for one language.
type Pack struct {
	LanguageInstruction string
	ChoiceRules         string
	JSONExample         string
	// Intro lines use {name} as the player placeholder.
	Intro []string
}

type Provider struct {
	packs    map[game.Language]Pack
	fallback game.Language
}

// NewProvider copies packs so later edits by the caller do not leak in.
// Unknown languages resolve to fallback.
func NewProvider(packs map[game.Language]Pack, fallback game.Language) *Provider {
	cp := make(map[game.Language]Pack, len(packs))
	for k, v := range packs {
		v.Intro = append([]string(nil), v.Intro...)
		cp[k] = v
	}
	return &Provider{packs: cp, fallback: fallback}
}

// Default returns the provider with the built-in en, th and singlish packs.
func Default() *Provider {
	return NewProvider(builtinPacks(), game.English)
}

func (p *Provider) pack(lang game.Language) Pack {
	if pk, ok := p.packs[lang]; ok {
		return pk
	}
	return p.packs[p.fallback]
}

// Text returns the block for lang.
func (p *Provider) Text(block Block, lang game.Language) string {
	pk := p.pack(lang)
	switch block {
	case LanguageInstruction:
		return pk.LanguageInstruction
	case ChoiceRules:
		return pk.ChoiceRules
	case JSONExample:
		return pk.JSONExample
	}
	return ""
}

// InitialTransitions returns the lines shown while the first beat is generated.
func (p *Provider) InitialTransitions(name string, lang game.Language) []string {
	intro := p.pack(lang).Intro
	out := make([]string, len(intro))
	for i, line := range intro {
		out[i] = strings.ReplaceAll(line, "{name}", name)
	}
	return out
}

// Languages lists the languages with a registered pack.
func (p *Provider) Languages() []game.Language {
	out := make([]game.Language, 0, len(p.packs))
	for _, l := range []game.Language{game.English, game.Thai, game.Singlish} {
		if _, ok := p.packs[l]; ok {
			out = append(out, l)
		}
	}
	for l := range p.packs {
		if l != game.English && l != game.Thai && l != game.Singlish {
			out = append(out, l)
		}
	}
	return out
}
