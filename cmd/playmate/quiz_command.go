package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playmate/internal/logging"
	"playmate/internal/quiz"
)

func newQuizCommand(ctx *commandContext) *cobra.Command {
	var (
		answers []int
		noMovie bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Score the movie taste quiz and pick a movie for the result",
		Long: "Score the movie taste quiz. Pass one zero-based option index per question\n" +
			"with --answers; list the questions with 'playmate quiz questions'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := quiz.Score(quiz.MovieQuiz, quiz.Answers(answers))
			if err != nil {
				return err
			}

			payload := quizOutput{Result: result, WinnerLabel: result.Winner.Label()}
			if !noMovie {
				movie, err := pickMovie(cmd, ctx, result)
				if err != nil {
					payload.MovieError = err.Error()
				}
				payload.Movie = movie
			}
			if jsonOut {
				return writeJSON(cmd, payload)
			}
			printQuizResult(cmd.OutOrStdout(), payload)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&answers, "answers", nil, "Option index per question, e.g. 0,2,1,3,0")
	cmd.Flags().BoolVar(&noMovie, "no-movie", false, "Skip the movie lookup")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("answers")

	cmd.AddCommand(newQuizQuestionsCommand())
	return cmd
}

type quizOutput struct {
	quiz.Result
	WinnerLabel string      `json:"winner_label"`
	Movie       *quiz.Movie `json:"movie,omitempty"`
	MovieError  string      `json:"movie_error,omitempty"`
}

// pickMovie looks up the movie card. Failures are logged and reported next to
// the scored result instead of failing the command.
func pickMovie(cmd *cobra.Command, ctx *commandContext, result quiz.Result) (*quiz.Movie, error) {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	cache, closeCache, err := ctx.catalogCache(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closeCache()
	catalog, err := ctx.movieCatalog(cache)
	if err != nil {
		return nil, err
	}
	movie, err := quiz.NewPicker(catalog, logger).Pick(cmd.Context(), result)
	if err != nil {
		logging.WarnWithContext(logger, "quiz movie lookup failed", "quiz_movie_failed",
			logging.String("winner", string(result.Winner)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "quiz result shown without a movie"),
		)
		return nil, err
	}
	return movie, nil
}

func printQuizResult(out io.Writer, payload quizOutput) {
	fmt.Fprintf(out, "당신의 영화 취향: %s\n", payload.WinnerLabel)
	if len(payload.Tags) > 0 {
		fmt.Fprintln(out, strings.Join(payload.Tags, " "))
	}
	rows := make([][]string, 0, len(quiz.Priority))
	for _, c := range quiz.Priority {
		rows = append(rows, []string{c.Label(), strconv.Itoa(payload.Scores[c])})
	}
	fmt.Fprintln(out, renderTable([]column{{header: "Genre"}, {header: "Score", right: true}}, rows))
	switch {
	case payload.Movie != nil:
		fmt.Fprintf(out, "추천 영화: %s", payload.Movie.Title)
		if payload.Movie.ReleaseDate != "" {
			fmt.Fprintf(out, " (%s)", payload.Movie.ReleaseDate)
		}
		fmt.Fprintln(out)
		if payload.Movie.Overview != "" {
			fmt.Fprintln(out, payload.Movie.Overview)
		}
		if payload.Movie.PosterURL != "" {
			fmt.Fprintln(out, payload.Movie.PosterURL)
		}
	case payload.MovieError != "":
		fmt.Fprintf(out, "영화 정보를 불러오지 못했어요: %s\n", payload.MovieError)
	}
}

func newQuizQuestionsCommand() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:         "questions",
		Short:       "List the quiz questions and option indexes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				return writeJSON(cmd, quiz.MovieQuiz.Questions)
			}
			out := cmd.OutOrStdout()
			for i, q := range quiz.MovieQuiz.Questions {
				fmt.Fprintf(out, "%d. %s\n", i+1, q.Prompt)
				for j, opt := range q.Options {
					fmt.Fprintf(out, "   [%d] %s\n", j, opt.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the questions as JSON")
	return cmd
}
