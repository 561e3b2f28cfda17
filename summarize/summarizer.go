// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package summarize

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/poiesic/voxnote/ai"
)

const (
	// DefaultDeviation is the tolerated fractional deviation from the
	// target window.
	DefaultDeviation = 0.20

	// DefaultMaxTries is the default number of generation attempts.
	DefaultMaxTries = 2

	defaultAttemptTimeout = 120 * time.Second
)

// apologyText substitutes for a summary when the model backend fails.
// It is subject to the same length check as any generated output.
const apologyText = "Sorry, the summary could not be generated right now. Please try again later."

// Result is the outcome of a summarization run.
type Result struct {
	// Summary is the accepted summary text. Never empty.
	Summary string

	// Degraded is true when no attempt produced an in-window summary
	// and the last attempt was accepted as-is.
	Degraded bool

	// Attempts is the number of generation attempts made.
	Attempts int
}

// Summarizer generates length-bounded summaries using a Generator.
type Summarizer struct {
	generator      ai.Generator
	maxTries       int
	deviation      float64
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// Option is a functional option for configuring a Summarizer.
type Option func(*Summarizer)

// WithMaxTries sets the number of generation attempts. Values below 1
// are clamped to 1.
func WithMaxTries(n int) Option {
	return func(s *Summarizer) {
		if n < 1 {
			n = 1
		}
		s.maxTries = n
	}
}

// WithDeviation sets the tolerated fractional deviation from the target
// window.
func WithDeviation(d float64) Option {
	return func(s *Summarizer) {
		s.deviation = d
	}
}

// WithAttemptTimeout bounds a single generation attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.attemptTimeout = d
	}
}

// NewSummarizer creates a Summarizer wrapping the given generator.
func NewSummarizer(generator ai.Generator, opts ...Option) *Summarizer {
	s := &Summarizer{
		generator:      generator,
		maxTries:       DefaultMaxTries,
		deviation:      DefaultDeviation,
		attemptTimeout: defaultAttemptTimeout,
		logger:         slog.Default().With("component", "summarizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize produces a summary of text. It retries generation while the
// result falls outside the tolerated length window, and accepts the last
// attempt as-is when every attempt misses. Backend failures substitute a
// fixed apology text for that attempt's output. Summarize never fails;
// the caller always gets a usable Result.
func (s *Summarizer) Summarize(ctx context.Context, text string) Result {
	bounds := TargetBounds(utf8.RuneCountInString(text))
	prompt := SummaryPrompt(bounds.Min, bounds.Max, text)

	var summary string
	for attempt := 1; attempt <= s.maxTries; attempt++ {
		summary = s.generateOnce(ctx, prompt)
		length := utf8.RuneCountInString(summary)

		if bounds.Allowed(length, s.deviation) {
			return Result{Summary: summary, Attempts: attempt}
		}

		if attempt < s.maxTries {
			s.logger.Debug("summary length out of window, retrying",
				"length", length, "min", bounds.Min, "max", bounds.Max, "attempt", attempt)
		}
	}

	s.logger.Warn("summary length out of window after all attempts",
		"length", utf8.RuneCountInString(summary),
		"min", bounds.Min, "max", bounds.Max, "attempts", s.maxTries)

	return Result{Summary: summary, Degraded: true, Attempts: s.maxTries}
}

func (s *Summarizer) generateOnce(ctx context.Context, prompt string) string {
	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	summary, err := s.generator.Generate(attemptCtx, prompt)
	if err != nil {
		s.logger.Error("generation failed, substituting apology", "error", err)
		return apologyText
	}
	return summary
}
