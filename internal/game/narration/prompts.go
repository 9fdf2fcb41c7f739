package narration

import (
	"fmt"
	"strings"

	"storybook/internal/game"
	"storybook/internal/game/locale"
)

// TextProvider supplies the pre-written language blocks.
type TextProvider interface {
	Text(block locale.Block, lang game.Language) string
}

// Composer renders the system instruction for a turn. It holds only
// immutable tables, so one Composer can serve concurrent requests.
type Composer struct {
	tables Tables
	texts  TextProvider
}

func NewComposer(tables Tables, texts TextProvider) *Composer {
	return &Composer{tables: tables.clone(), texts: texts}
}

// Compose builds the full system instruction for profile. Same profile, same bytes.
func (c *Composer) Compose(profile game.PlayerProfile) string {
	var b strings.Builder

	b.WriteString("You are a world-class children's book narrator specializing in the Hero's Journey.\n\n")
	c.writeArc(&b)
	c.writeLengthRules(&b)
	c.writeVisualDNA(&b, profile)
	c.writeLanguage(&b, profile.Language)

	b.WriteString(c.texts.Text(locale.JSONExample, profile.Language))
	b.WriteString("\n\nRespond ONLY with a single JSON object with the fields storyText, choices, optional choicesWithTransition and imagePrompt. No markdown and no prose before or after.")

	return b.String()
}

func (c *Composer) writeArc(b *strings.Builder) {
	n := len(c.tables.Stages)
	fmt.Fprintf(b, "NARRATIVE ARC (%d STEPS):\nYou must guide the child through exactly %d sequential interactions:\n", n, n)
	for i, stage := range c.tables.Stages {
		fmt.Fprintf(b, "%d. %s\n", i+1, stage)
	}
	fmt.Fprintf(b, "Count the story beats already told to know which step comes next. Step %d is the ending: it MUST return an empty \"choices\" array and conclude the story.\n\n", n)

	b.WriteString(`STORY RULES:
1. FORWARD MOTION: Every beat MUST change the physical location or introduce a new character. No "thinking" or "feeling" sentences. Only ACTION.
2. PACE: Use short, punchy sentences. Follow the Hero's Journey steps strictly and in order.
3. DANGER & DELIGHT: Even if it's "safe," include mystery! Use words like "Suddenly," "Vanished," "Sparkled," "Discovered."

`)
}

func (c *Composer) writeLengthRules(b *strings.Builder) {
	n := len(c.tables.Stages)
	fmt.Fprintf(b, `LENGTH RULES:
- Beats 1-%d: move the story forward to the NEXT step in exactly 1-3 sentences (max 200 characters).
- Beat %d: no choices, 3-5 sentences (max 500 characters) that conclude the story.
- Every beat MUST return imagePrompt.

`, n-1, n)
}

func (c *Composer) writeVisualDNA(b *strings.Builder, profile game.PlayerProfile) {
	b.WriteString("VISUAL DNA (FOR IMAGEPROMPT):\n")
	fmt.Fprintf(b, "- STYLE: %q\n", c.tables.Style)
	fmt.Fprintf(b, "- THEME: %s\n", c.ThemeDescription(profile.Theme))
	fmt.Fprintf(b, "- CHARACTER: %q This description MUST remain identical in every prompt.\n", c.CharacterDescription(profile))
	b.WriteString(`- PROMPT RULE: You MUST include the "imagePrompt" field in EVERY SINGLE response, written in English.
- STRUCTURE: Your "imagePrompt" must always follow this template:
  "[CHARACTER] [ACTION] in [SPECIFIC SETTING], Style of [STYLE]"

`)
}

func (c *Composer) writeLanguage(b *strings.Builder, lang game.Language) {
	b.WriteString("LANGUAGE:\n")
	b.WriteString(c.texts.Text(locale.LanguageInstruction, lang))
	b.WriteString("\n\n")
	b.WriteString(c.texts.Text(locale.ChoiceRules, lang))
	b.WriteString("\n\n")
}

// ThemeDescription renders the theme block as one line.
func (c *Composer) ThemeDescription(theme game.Theme) string {
	tv, ok := c.tables.Themes[theme]
	if !ok {
		return "a magical storybook world"
	}
	return fmt.Sprintf("%s. Setting: %s. Recurring motifs: %s.", tv.Title, tv.Setting, strings.Join(tv.Motifs, ", "))
}

// CharacterDescription is the appearance line the model must copy into every
// image prompt. It depends only on name, gender and customization.
func (c *Composer) CharacterDescription(profile game.PlayerProfile) string {
	ch := c.tables.DefaultCharacter
	if profile.Character != nil {
		ch = *profile.Character
	}

	who, ok := c.tables.Genders[profile.Gender]
	if !ok {
		who = "a cheerful little child"
	}

	hairColor := lookup(c.tables.HairColors, ch.HairColor, string(ch.HairColor))
	hair := fmt.Sprintf(lookup(c.tables.HairStyles, ch.HairStyle, "%s hair"), hairColor)
	accent := lookup(c.tables.FavoriteColors, ch.FavoriteColor, string(ch.FavoriteColor))
	outfit := fmt.Sprintf(lookup(c.tables.Outfits, ch.OutfitStyle, "a %s outfit"), accent)

	return fmt.Sprintf("The hero is %s, %s with %s, wearing %s.", profile.Name, who, hair, outfit)
}

func lookup[K comparable](m map[K]string, k K, fallback string) string {
	if v, ok := m[k]; ok {
		return v
	}
	return fallback
}
