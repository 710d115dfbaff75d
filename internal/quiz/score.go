package quiz

import (
	"fmt"
	"strings"
)

// Category is a scored genre bucket.
type Category string

const (
	Drama    Category = "drama"
	Romance  Category = "romance"
	Comedy   Category = "comedy"
	Action   Category = "action"
	Thriller Category = "thriller"
	SF       Category = "sf"
)

// Priority is the tie-break order: earlier categories win ties.
var Priority = []Category{Drama, Romance, Comedy, Action, Thriller, SF}

var categoryInfo = map[Category]struct {
	label   string
	genreID int
}{
	Drama:    {"드라마", 18},
	Romance:  {"로맨스", 10749},
	Comedy:   {"코미디", 35},
	Action:   {"액션", 28},
	Thriller: {"스릴러", 53},
	SF:       {"SF", 878},
}

// Label returns the display name.
func (c Category) Label() string {
	if info, ok := categoryInfo[c]; ok {
		return info.label
	}
	return string(c)
}

// GenreID returns the TMDB genre id, or 0 for unknown categories.
func (c Category) GenreID() int {
	return categoryInfo[c].genreID
}

// Option is one answer choice.
type Option struct {
	Text    string           `json:"text"`
	Weights map[Category]int `json:"-"`
}

// Question is one quiz question.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// TagRule adds Tag when any keyword appears in a chosen answer.
type TagRule struct {
	Tag      string
	Keywords []string
}

// Quiz is a fixed question set with its tag rules.
type Quiz struct {
	Questions []Question
	// TagQuestions are the zero-based question indexes scanned for tags.
	TagQuestions []int
	TagRules     []TagRule
}

// Answers holds one option index per question.
type Answers []int

// Scores maps each category to its accumulated weight.
type Scores map[Category]int

// Result is the scored outcome.
type Result struct {
	Winner Category `json:"winner"`
	Scores Scores   `json:"scores"`
	Tags   []string `json:"tags"`
}

const maxTags = 2

// Validate reports answer sets that do not pick exactly one valid option per
// question.
func (q Quiz) Validate(answers Answers) error {
	if len(answers) != len(q.Questions) {
		return fmt.Errorf("quiz needs %d answers, got %d", len(q.Questions), len(answers))
	}
	for i, idx := range answers {
		if idx < 0 || idx >= len(q.Questions[i].Options) {
			return fmt.Errorf("answer %d: option %d out of range (0-%d)", i+1, idx, len(q.Questions[i].Options)-1)
		}
	}
	return nil
}

// Score sums the weights of the chosen options. The only error is an
// incomplete or out-of-range answer set.
func Score(q Quiz, answers Answers) (Result, error) {
	if err := q.Validate(answers); err != nil {
		return Result{}, err
	}
	scores := make(Scores, len(Priority))
	for _, c := range Priority {
		scores[c] = 0
	}
	for i, idx := range answers {
		for category, weight := range q.Questions[i].Options[idx].Weights {
			scores[category] += weight
		}
	}

	winner := Priority[0]
	for _, c := range Priority[1:] {
		if scores[c] > scores[winner] {
			winner = c
		}
	}
	return Result{Winner: winner, Scores: scores, Tags: q.tags(answers)}, nil
}

func (q Quiz) tags(answers Answers) []string {
	tags := make([]string, 0, maxTags)
	for _, qi := range q.TagQuestions {
		if qi < 0 || qi >= len(answers) {
			continue
		}
		text := strings.ToLower(q.Questions[qi].Options[answers[qi]].Text)
		for _, rule := range q.TagRules {
			if len(tags) == maxTags {
				return tags
			}
			if containsTag(tags, rule.Tag) || !containsAny(text, rule.Keywords) {
				continue
			}
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
