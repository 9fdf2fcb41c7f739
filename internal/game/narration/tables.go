package narration

import "storybook/internal/game"

// IllustrationStyle is appended to every image prompt so all panels of a book look alike.
const IllustrationStyle = "A dreamy watercolor children's book illustration in soft hand-painted style, with visible paper texture and layered watercolor washes. Gentle pastel colors, soft glowing light, and a magical bedtime atmosphere. Characters have round, cute storybook faces with big eyes and warm expressions. The scene looks like it was painted on textured watercolor paper with soft edges, subtle paint pooling, and natural brush strokes. Whimsical, calm, and magical."

type ThemeVisual struct {
	Title   string
	Setting string
	Motifs  []string
}

// Tables is every constant the composer renders from. Hair styles and outfits
// are format strings taking one colour word.
type Tables struct {
	Style          string
	Stages         []string
	Themes         map[game.Theme]ThemeVisual
	Genders        map[game.Gender]string
	HairColors     map[game.HairColor]string
	HairStyles     map[game.HairStyle]string
	Outfits        map[game.OutfitStyle]string
	FavoriteColors map[game.FavoriteColor]string
	// Used when a profile carries no customization.
	DefaultCharacter game.CharacterCustomization
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Style: IllustrationStyle,
		Stages: []string{
			"Ordinary World (The Dream)",
			"Call to Adventure",
			"Refusal of the Call",
			"Meeting the Mentor",
			"Crossing the Threshold",
			"Tests, Allies, Enemies",
			"Approach to the Inmost Cave",
			"The Ordeal",
			"Reward (Seizing the Sword)",
			"The Road Back",
			"Resurrection",
			"Return with the Elixir",
		},
		Themes: map[game.Theme]ThemeVisual{
			game.EnchantedForest: {
				Title:   "Enchanted Forest",
				Setting: "an ancient glowing forest with giant mossy trees and winding flower paths",
				Motifs:  []string{"fireflies", "talking animals", "mushroom houses", "sparkling streams"},
			},
			game.SpaceAdventure: {
				Title:   "Space Adventure",
				Setting: "a friendly starry galaxy full of candy-coloured planets and a round little rocket",
				Motifs:  []string{"twinkling stars", "moon craters", "friendly aliens", "comet trails"},
			},
			game.UnderwaterKingdom: {
				Title:   "Underwater Kingdom",
				Setting: "a shimmering coral kingdom deep under a turquoise sea",
				Motifs:  []string{"bubbles", "sea turtles", "glowing jellyfish", "pearl palaces"},
			},
			game.DinosaurLand: {
				Title:   "Dinosaur Land",
				Setting: "a sunny prehistoric valley with ferns, volcanoes puffing soft clouds and gentle dinosaurs",
				Motifs:  []string{"giant footprints", "dinosaur eggs", "palm ferns", "waterfalls"},
			},
			game.FairyTaleCastle: {
				Title:   "Fairy Tale Castle",
				Setting: "a pastel castle on a hill with tall towers, a drawbridge and rose gardens",
				Motifs:  []string{"crowns", "friendly dragons", "enchanted mirrors", "star-shaped lanterns"},
			},
		},
		Genders: map[game.Gender]string{
			game.Boy:  "a cheerful little boy",
			game.Girl: "a cheerful little girl",
		},
		HairColors: map[game.HairColor]string{
			game.HairBrown:  "chestnut brown",
			game.HairBlack:  "shiny black",
			game.HairBlonde: "golden blonde",
			game.HairRed:    "copper red",
			game.HairBlue:   "bright sky blue",
			game.HairPink:   "candy pink",
		},
		HairStyles: map[game.HairStyle]string{
			game.HairShort:    "short tousled %s hair",
			game.HairLong:     "long flowing %s hair",
			game.HairCurly:    "bouncy curly %s hair",
			game.HairBraids:   "%s hair in two neat braids",
			game.HairPonytail: "%s hair in a high ponytail",
		},
		Outfits: map[game.OutfitStyle]string{
			game.OutfitAdventurer: "a %s adventurer tunic with a little leather satchel",
			game.OutfitPrincess:   "a %s royal gown with a tiny golden crown",
			game.OutfitSuperhero:  "a %s superhero suit with a flowing cape",
			game.OutfitWizard:     "a %s wizard robe and a starry pointed hat",
			game.OutfitExplorer:   "a %s explorer vest, shorts and a brass compass",
		},
		FavoriteColors: map[game.FavoriteColor]string{
			game.ColorPurple: "lavender purple",
			game.ColorBlue:   "ocean blue",
			game.ColorPink:   "rose pink",
			game.ColorGreen:  "leaf green",
			game.ColorRed:    "cherry red",
			game.ColorYellow: "sunshine yellow",
		},
		DefaultCharacter: game.CharacterCustomization{
			HairColor:     game.HairBrown,
			HairStyle:     game.HairShort,
			OutfitStyle:   game.OutfitAdventurer,
			FavoriteColor: game.ColorBlue,
		},
	}
}

func (t Tables) clone() Tables {
	out := t
	out.Stages = append([]string(nil), t.Stages...)
	out.Themes = make(map[game.Theme]ThemeVisual, len(t.Themes))
	for k, v := range t.Themes {
		v.Motifs = append([]string(nil), v.Motifs...)
		out.Themes[k] = v
	}
	out.Genders = cloneMap(t.Genders)
	out.HairColors = cloneMap(t.HairColors)
	out.HairStyles = cloneMap(t.HairStyles)
	out.Outfits = cloneMap(t.Outfits)
	out.FavoriteColors = cloneMap(t.FavoriteColors)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
