package httpapi

import (
	"net/http"

	"playmate/internal/chat"
	"playmate/internal/logging"
	"playmate/internal/quiz"
	"playmate/internal/recommend"
	"playmate/internal/services"
)

type profilePayload struct {
	PreferredGenres []string `json:"preferred_genres" validate:"max=20,dive,max=40"`
	ExcludedGenres  []string `json:"excluded_genres" validate:"max=20,dive,max=40"`
	Experiences     []string `json:"experiences" validate:"max=20,dive,max=40"`
	ExperienceNote  string   `json:"experience_note" validate:"max=500"`
	LikedGames      string   `json:"liked_games" validate:"max=500"`
	Platforms       []string `json:"platforms" validate:"max=10,dive,max=40"`
	HoursPerDay     float64  `json:"hours_per_day" validate:"gte=0,lte=24"`
}

func (p profilePayload) profile() recommend.Profile {
	return recommend.Profile{
		PreferredGenres: p.PreferredGenres,
		ExcludedGenres:  p.ExcludedGenres,
		Experiences:     p.Experiences,
		ExperienceNote:  p.ExperienceNote,
		LikedGames:      p.LikedGames,
		Platforms:       p.Platforms,
		HoursPerDay:     p.HoursPerDay,
	}
}

type recommendRequest struct {
	Profile        profilePayload `json:"profile"`
	CandidateCount int            `json:"candidate_count" validate:"gte=0,lte=40"`
	FactLimit      int            `json:"fact_limit" validate:"gte=0,lte=40"`
}

type directRequest struct {
	Profile profilePayload `json:"profile"`
}

type quizRequest struct {
	Answers []int `json:"answers" validate:"required,dive,gte=0"`
}

type quizResponse struct {
	Winner      quiz.Category `json:"winner"`
	WinnerLabel string        `json:"winner_label"`
	Scores      quiz.Scores   `json:"scores"`
	Tags        []string      `json:"tags"`
	Movie       *quiz.Movie   `json:"movie,omitempty"`
	MovieError  string        `json:"movie_error,omitempty"`
}

type chatRequest struct {
	Profile  profilePayload `json:"profile"`
	Messages []chat.Message `json:"messages" validate:"max=200,dive"`
	Message  string         `json:"message" validate:"required,max=2000"`
}

type chatResponse struct {
	Reply    string            `json:"reply"`
	Messages chat.Conversation `json:"messages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if s.deps.Recommender == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration", "recommendations are not configured")
		return
	}
	var req recommendRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	result, err := s.deps.Recommender.Run(r.Context(), recommend.Request{
		Profile:        req.Profile.profile(),
		CandidateCount: req.CandidateCount,
		FactLimit:      req.FactLimit,
	})
	if err != nil {
		s.logFailure("recommend", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDirect(w http.ResponseWriter, r *http.Request) {
	if s.deps.Direct == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration", "direct recommendations are not configured")
		return
	}
	var req directRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	result, err := s.deps.Direct.Recommend(r.Context(), recommend.CompileProfile(req.Profile.profile()))
	if err != nil {
		s.logFailure("direct", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": s.deps.Quiz.Questions})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	result, err := quiz.Score(s.deps.Quiz, quiz.Answers(req.Answers))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	resp := quizResponse{
		Winner:      result.Winner,
		WinnerLabel: result.Winner.Label(),
		Scores:      result.Scores,
		Tags:        result.Tags,
	}
	// The scored result stands on its own; a movie lookup failure only
	// drops the poster card.
	if s.deps.Movies != nil {
		movie, err := s.deps.Movies.Pick(r.Context(), result)
		if err != nil {
			logging.WarnWithContext(s.logger, "quiz movie lookup failed", "quiz_movie_failed",
				logging.String("winner", string(result.Winner)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "quiz result returned without a movie"),
			)
			resp.MovieError = err.Error()
		} else {
			resp.Movie = movie
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.deps.Chat == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration", "chat is not configured")
		return
	}
	var req chatRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	conv := chat.Conversation(req.Messages)
	if len(conv) == 0 {
		conv = chat.NewConversation()
	}
	session := chat.NewSession(s.deps.Chat, recommend.CompileProfile(req.Profile.profile()), s.deps.Logger)
	next, err := session.Reply(r.Context(), conv, req.Message)
	if err != nil {
		s.logFailure("chat", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: next[len(next)-1].Content, Messages: next})
}

func (s *Server) logFailure(route string, err error) {
	kind := services.FailureKind(err)
	if kind == "not_found" {
		s.logger.Info("api request produced no result",
			logging.Args(logging.String("route", route), logging.Error(err))...)
		return
	}
	if statusFor(err) == http.StatusInternalServerError {
		logging.ErrorWithContext(s.logger, "api request failed", "api_request_failed",
			logging.String("route", route),
			logging.String("failure_kind", kind),
			logging.Error(err),
		)
		return
	}
	logging.WarnWithContext(s.logger, "api request failed", "api_request_failed",
		logging.String("route", route),
		logging.String("failure_kind", kind),
		logging.Error(err),
		logging.String(logging.FieldImpact, "request answered with an error"),
	)
}
