package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/mcq-client/internal/generator"
	"github.com/stemsi/mcq-client/internal/model"
	"github.com/stemsi/mcq-client/internal/quiz"
	"github.com/stemsi/mcq-client/internal/repository"
)

const (
	// DefaultStaleAfter is how long a session may stay loading before a new
	// submit or reset may take it over.
	DefaultStaleAfter = 10 * time.Minute

	outcomeSaveAttempts = 3
	outcomeSaveBackoff  = 50 * time.Millisecond
)

// errUnchanged aborts an update that has nothing to store.
var errUnchanged = errors.New("session unchanged")

// QuizService drives one quiz session per browser: it applies an event through
// quiz.Transition inside an atomic repository update.
type QuizService struct {
	sessions   repository.SessionRepository
	generator  generator.Generator
	log        zerolog.Logger
	staleAfter time.Duration
	now        func() time.Time
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithStaleAfter sets how long a session may stay loading before it is treated
// as abandoned.
func WithStaleAfter(d time.Duration) Option {
	return func(s *QuizService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// NewQuizService creates a new QuizService.
func NewQuizService(sessions repository.SessionRepository, gen generator.Generator, log zerolog.Logger, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:   sessions,
		generator:  gen,
		log:        log.With().Str("component", "quiz_service").Logger(),
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the session stored under id, or a fresh configuring session.
// An abandoned loading session is shown as failed.
func (s *QuizService) Current(ctx context.Context, id string) (quiz.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return quiz.NewSession(id), nil
	}
	if err != nil {
		return quiz.Session{}, fmt.Errorf("load session: %w", err)
	}
	return s.settle(sess), nil
}

// Generate validates cfg, moves the session to loading and performs the generation
// call. Validation failures return before anything is stored or sent. The call is
// not tied to ctx's cancellation: once started it runs to success or failure, and
// its outcome is stored either way.
func (s *QuizService) Generate(ctx context.Context, id string, cfg model.QuizConfig) (quiz.Session, error) {
	req, err := quiz.BuildRequest(cfg)
	if err != nil {
		return quiz.Session{}, err
	}

	sess, err := s.apply(ctx, id, quiz.SubmitConfig{Request: req, At: s.now()})
	if err != nil {
		return sess, err
	}

	log := s.log.With().
		Str("session_id", id).
		Int("attempt", sess.Attempt).
		Str("subject", string(req.Subject)).
		Str("difficulty", string(req.Difficulty)).
		Int("num_questions", req.NumQuestions).
		Bool("fallback_key", req.FallbackAPIKey != "").
		Logger()
	log.Info().Msg("generating questions")

	callCtx := context.WithoutCancel(ctx)
	result, genErr := s.generator.Generate(callCtx, req)

	var ev quiz.Event
	if genErr != nil {
		log.Warn().Err(genErr).Msg("question generation failed")
		ev = quiz.GenerationFailed{Err: genErr, Attempt: sess.Attempt}
	} else {
		log.Info().Int("received", len(result.Questions)).Msg("questions generated")
		ev = quiz.GenerationSucceeded{Result: *result, Attempt: sess.Attempt}
	}

	next, err := s.storeOutcome(callCtx, id, ev)
	if errors.Is(err, quiz.ErrInvalidTransition) {
		log.Warn().Msg("generation outcome discarded, session moved on")
		return s.Current(callCtx, id)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to store generation outcome")
		return next, fmt.Errorf("save session: %w", err)
	}
	return next, nil
}

// storeOutcome applies a generation outcome, retrying storage failures so the
// session does not stay loading. The outcome is applied without settle: a late
// answer to the current attempt still wins.
func (s *QuizService) storeOutcome(ctx context.Context, id string, ev quiz.Event) (quiz.Session, error) {
	var (
		next quiz.Session
		err  error
	)
	for attempt := range outcomeSaveAttempts {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * outcomeSaveBackoff)
		}
		next, err = s.sessions.Update(ctx, id, func(cur quiz.Session) (quiz.Session, error) {
			return quiz.Transition(cur, ev)
		})
		if err == nil || errors.Is(err, quiz.ErrInvalidTransition) {
			return next, err
		}
	}
	return next, err
}

// SelectAnswer records optionKey as the answer to question questionID.
func (s *QuizService) SelectAnswer(ctx context.Context, id string, questionID int, optionKey string) (quiz.Session, error) {
	return s.apply(ctx, id, quiz.SelectAnswer{QuestionID: questionID, OptionKey: optionKey})
}

// SelectAnswers records several answers in one go, stopping at the first rejected one.
// Answers recorded before the failure are kept.
func (s *QuizService) SelectAnswers(ctx context.Context, id string, answers model.AnswerState) (quiz.Session, error) {
	var selErr error
	sess, err := s.sessions.Update(ctx, id, func(cur quiz.Session) (quiz.Session, error) {
		selErr = nil
		cur = s.settle(cur)
		changed := false
		for _, q := range cur.Questions() {
			key, ok := answers[q.ID]
			if !ok {
				continue
			}
			next, err := quiz.Transition(cur, quiz.SelectAnswer{QuestionID: q.ID, OptionKey: key})
			if err != nil {
				selErr = err
				break
			}
			cur, changed = next, true
		}
		if !changed {
			return cur, errUnchanged
		}
		return cur, nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return sess, err
	}
	return sess, selErr
}

// SubmitAnswers scores the test. Unanswered questions leave the session as it was.
func (s *QuizService) SubmitAnswers(ctx context.Context, id string) (quiz.Session, error) {
	sess, err := s.apply(ctx, id, quiz.SubmitAnswers{})
	if err == nil && sess.Score != nil {
		s.log.Info().
			Str("session_id", id).
			Int("correct", sess.Score.Correct).
			Int("total", sess.Score.Total).
			Msg("test submitted")
	}
	return sess, err
}

// Reset returns the session to an empty configuration form.
func (s *QuizService) Reset(ctx context.Context, id string) (quiz.Session, error) {
	return s.apply(ctx, id, quiz.Reset{})
}

func (s *QuizService) apply(ctx context.Context, id string, ev quiz.Event) (quiz.Session, error) {
	return s.sessions.Update(ctx, id, func(cur quiz.Session) (quiz.Session, error) {
		return quiz.Transition(s.settle(cur), ev)
	})
}

// settle fails a session whose generation call has been loading for longer than
// staleAfter. Its outcome may never arrive, e.g. after a restart mid-call.
func (s *QuizService) settle(sess quiz.Session) quiz.Session {
	if !sess.Stale(s.now(), s.staleAfter) {
		return sess
	}
	next, err := quiz.Transition(sess, quiz.GenerationFailed{Err: quiz.ErrGenerationAbandoned, Attempt: sess.Attempt})
	if err != nil {
		return sess
	}
	s.log.Debug().
		Str("session_id", sess.ID).
		Int("attempt", sess.Attempt).
		Time("loading_since", sess.LoadingSince).
		Msg("abandoned generation taken over")
	return next
}
