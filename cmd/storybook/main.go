// Command storybook plays an illustrated branching story in the terminal.
// It also reviews and rates the completions recorded while playing.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storybook/internal/game"
	"storybook/internal/game/locale"
	"storybook/internal/logging"
)

const defaultJournal = "completions.db"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "review", "--review":
			if err := runReviewMode(os.Args[2:]); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			return
		case "rate":
			if err := runRatingMode(os.Args[2:]); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			return
		}
	}

	if err := runPlayMode(os.Args[1:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func journalPath() string {
	if p := os.Getenv("COMPLETION_LOG_PATH"); p != "" {
		return p
	}
	return defaultJournal
}

func runPlayMode(args []string) error {
	fs := flag.NewFlagSet("storybook", flag.ContinueOnError)
	name := fs.String("name", "", "hero name (required)")
	gender := fs.String("gender", string(game.Girl), "boy or girl")
	language := fs.String("language", string(game.English), "story language: "+languageList())
	theme := fs.String("theme", string(game.EnchantedForest), "story world")
	hairColor := fs.String("hair-color", "", "optional hero hair color")
	hairStyle := fs.String("hair-style", "", "optional hero hair style")
	outfit := fs.String("outfit", "", "optional hero outfit")
	favorite := fs.String("favorite-color", "", "optional favorite color")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile, err := buildProfile(*name, *gender, *language, *theme, *hairColor, *hairStyle, *outfit, *favorite)
	if err != nil {
		return err
	}

	model, cleanup, err := createApp(profile, journalPath())
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// languageList names the languages that have story text.
func languageList() string {
	langs := locale.Default().Languages()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

func buildProfile(name, gender, language, theme, hairColor, hairStyle, outfit, favorite string) (game.PlayerProfile, error) {
	profile := game.PlayerProfile{
		Name:     game.SanitizeName(name),
		Gender:   game.Gender(gender),
		Language: game.Language(language),
		Theme:    game.Theme(theme),
	}

	var problems []string
	if profile.Name == "" {
		problems = append(problems, "-name is required")
	}
	if !profile.Gender.Valid() {
		problems = append(problems, fmt.Sprintf("unknown gender %q", gender))
	}
	if !profile.Language.Valid() {
		problems = append(problems, fmt.Sprintf("unknown language %q (want %s)", language, languageList()))
	}
	if !profile.Theme.Valid() {
		problems = append(problems, fmt.Sprintf("unknown theme %q", theme))
	}

	if hairColor != "" || hairStyle != "" || outfit != "" || favorite != "" {
		c := &game.CharacterCustomization{
			HairColor:     game.HairColor(hairColor),
			HairStyle:     game.HairStyle(hairStyle),
			OutfitStyle:   game.OutfitStyle(outfit),
			FavoriteColor: game.FavoriteColor(favorite),
		}
		if !c.HairColor.Valid() || !c.HairStyle.Valid() || !c.OutfitStyle.Valid() || !c.FavoriteColor.Valid() {
			problems = append(problems, "character options need a valid -hair-color, -hair-style, -outfit and -favorite-color")
		}
		profile.Character = c
	}

	if len(problems) > 0 {
		return game.PlayerProfile{}, errors.New(strings.Join(problems, "; "))
	}
	return profile, nil
}

func runReviewMode(args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	limit := fs.Int("n", 10, "number of completions to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	journal, err := logging.NewCompletionLogger(journalPath())
	if err != nil {
		return fmt.Errorf("failed to open completion database: %w", err)
	}
	defer journal.Close()

	completions, err := journal.GetRecentCompletions(context.Background(), *limit)
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	if len(completions) == 0 {
		fmt.Println("No completions found. Play a story first to generate data!")
		return nil
	}

	fmt.Printf("Recent completions (%d):\n\n", len(completions))
	for _, comp := range completions {
		var metadata logging.CompletionMetadata
		if err := json.Unmarshal([]byte(comp.Metadata), &metadata); err == nil {
			fmt.Printf("[%s] %s | %s | beat %d | %dms\n",
				comp.ID,
				comp.Timestamp.Format("15:04:05"),
				comp.Operation,
				metadata.Stage,
				metadata.ResponseTimeMS)
			if metadata.Error != nil {
				fmt.Printf("Error: %s\n", *metadata.Error)
			}
		} else {
			fmt.Printf("[%s] %s | %s\n", comp.ID, comp.Timestamp.Format("15:04:05"), comp.Operation)
		}

		fmt.Printf("Response: %s\n", comp.Response)
		if comp.Rating != nil {
			fmt.Printf("Rating: %d/5", *comp.Rating)
			if comp.Notes != nil {
				fmt.Printf(" - %s", *comp.Notes)
			}
		} else {
			fmt.Printf("Rating: not rated")
		}
		fmt.Println("\n" + strings.Repeat("-", 50))
	}

	fmt.Println("\nTo rate a completion: storybook rate <id> <rating> [notes]")
	return nil
}

func runRatingMode(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: storybook rate <id> <rating> [notes]")
	}
	id := args[0]
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid rating: %w", err)
	}
	notes := strings.Join(args[2:], " ")

	journal, err := logging.NewCompletionLogger(journalPath())
	if err != nil {
		return fmt.Errorf("failed to open completion database: %w", err)
	}
	defer journal.Close()

	if err := journal.RateCompletion(context.Background(), id, rating, notes); err != nil {
		return fmt.Errorf("failed to rate completion: %w", err)
	}

	fmt.Printf("Rated completion %s as %d/5", id, rating)
	if notes != "" {
		fmt.Printf(" with notes: %s", notes)
	}
	fmt.Println()
	return nil
}
