package quiz

import (
	"strings"
	"testing"
)

func TestScoreAllDramaAnswers(t *testing.T) {
	answers := Answers{0, 0, 0, 0, 0}
	res, err := Score(MovieQuiz, answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Winner != Drama {
		t.Fatalf("expected drama, got %s (scores %v)", res.Winner, res.Scores)
	}
	if res.Scores[Drama] != 10 {
		t.Fatalf("unexpected drama score %d", res.Scores[Drama])
	}
	if len(res.Scores) != len(Priority) {
		t.Fatalf("expected every category in the score table, got %v", res.Scores)
	}
}

func TestScoreTieResolvedByPriority(t *testing.T) {
	q := Quiz{Questions: []Question{
		{Prompt: "q1", Options: []Option{{Text: "a", Weights: map[Category]int{Action: 2}}}},
		{Prompt: "q2", Options: []Option{{Text: "b", Weights: map[Category]int{Drama: 2}}}},
	}}
	res, err := Score(q, Answers{0, 0})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Winner != Drama {
		t.Fatalf("expected drama to win the tie, got %s", res.Winner)
	}

	q = Quiz{Questions: []Question{
		{Prompt: "q1", Options: []Option{{Text: "a", Weights: map[Category]int{SF: 1, Thriller: 1}}}},
	}}
	res, _ = Score(q, Answers{0})
	if res.Winner != Thriller {
		t.Fatalf("expected thriller to beat sf on a tie, got %s", res.Winner)
	}
}

func TestScoreAllZeroPicksFirstPriority(t *testing.T) {
	q := Quiz{Questions: []Question{{Prompt: "q", Options: []Option{{Text: "none"}}}}}
	res, err := Score(q, Answers{0})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Winner != Drama {
		t.Fatalf("expected drama, got %s", res.Winner)
	}
}

func TestScoreRejectsIncompleteAnswers(t *testing.T) {
	if _, err := Score(MovieQuiz, Answers{0, 0}); err == nil {
		t.Fatal("expected error for incomplete answers")
	}
	if _, err := Score(MovieQuiz, Answers{0, 0, 0, 0, 9}); err == nil || !strings.Contains(err.Error(), "answer 5") {
		t.Fatalf("expected out-of-range error for answer 5, got %v", err)
	}
}

func TestEveryCompleteAnswerSetHasOneWinner(t *testing.T) {
	answers := make(Answers, len(MovieQuiz.Questions))
	var walk func(i int)
	count := 0
	walk = func(i int) {
		if i == len(answers) {
			res, err := Score(MovieQuiz, answers)
			if err != nil {
				t.Fatalf("Score(%v): %v", answers, err)
			}
			if res.Winner.GenreID() == 0 {
				t.Fatalf("Score(%v): winner %q has no genre", answers, res.Winner)
			}
			count++
			return
		}
		for opt := range MovieQuiz.Questions[i].Options {
			answers[i] = opt
			walk(i + 1)
		}
	}
	walk(0)
	if count == 0 {
		t.Fatal("no answer sets walked")
	}
}

func TestTagsFromDesignatedQuestions(t *testing.T) {
	// q1 잔잔/여운 -> #여운, q3 감동 -> #감동; the q5 answer would add #몰입 but the cap is 2.
	res, err := Score(MovieQuiz, Answers{0, 4, 0, 3, 0})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(res.Tags) != 2 || res.Tags[0] != "#여운" || res.Tags[1] != "#감동" {
		t.Fatalf("unexpected tags %v", res.Tags)
	}

	// q1 and q3 both give #웃음; q5 (친구들과 떠들썩하게) repeats it and adds #함께.
	res, _ = Score(MovieQuiz, Answers{2, 1, 2, 0, 2})
	if len(res.Tags) != 2 || res.Tags[0] != "#웃음" || res.Tags[1] != "#함께" {
		t.Fatalf("expected [#웃음 #함께], got %v", res.Tags)
	}
}

func TestCategoryLabels(t *testing.T) {
	if Drama.Label() != "드라마" || SF.GenreID() != 878 {
		t.Fatal("unexpected category metadata")
	}
	if Category("western").Label() != "western" {
		t.Fatal("unknown categories should label as themselves")
	}
}
