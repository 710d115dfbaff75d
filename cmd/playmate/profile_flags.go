package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"playmate/internal/recommend"
)

// defaultHours matches the daily play-time slider default.
const defaultHours = 1.5

type profileFlags struct {
	genres    []string
	excluded  []string
	feelings  []string
	feelNote  string
	liked     string
	platforms []string
	hours     float64
}

func (p *profileFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&p.genres, "genre", nil, "Preferred genre (repeatable)")
	flags.StringSliceVar(&p.excluded, "exclude", nil, "Genre to avoid (repeatable)")
	flags.StringSliceVar(&p.feelings, "feel", nil, "Experience you want, e.g. 힐링 (repeatable)")
	flags.StringVar(&p.feelNote, "feel-note", "", "Free-text note about the experience you want")
	flags.StringVar(&p.liked, "liked", "", "Games you enjoyed, comma separated")
	flags.StringSliceVar(&p.platforms, "platform", nil,
		fmt.Sprintf("Platform filter, one of %s (repeatable)", strings.Join(recommend.PlatformChoices(), ", ")))
	flags.Float64Var(&p.hours, "hours", defaultHours, "Play time per day in hours")
}

func (p *profileFlags) profile() (recommend.Profile, error) {
	if p.hours < 0 || p.hours > 24 {
		return recommend.Profile{}, fmt.Errorf("--hours must be between 0 and 24, got %v", p.hours)
	}
	return recommend.Profile{
		PreferredGenres: p.genres,
		ExcludedGenres:  p.excluded,
		Experiences:     p.feelings,
		ExperienceNote:  p.feelNote,
		LikedGames:      p.liked,
		Platforms:       p.platforms,
		HoursPerDay:     p.hours,
	}, nil
}
