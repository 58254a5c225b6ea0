// Package classifier scores candidate messages against a resume profile
// using a language-model backend. It owns prompt construction and response
// parsing; the actual inference call is delegated to a Completer.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/edgard/jobscout/internal/database"
	"github.com/edgard/jobscout/internal/fetch"
	"github.com/edgard/jobscout/internal/profile"
	"github.com/edgard/jobscout/internal/vacancy"
)

// ErrNoPayload indicates the model response contained no decodable JSON
// payload. Callers must treat this as "classification unavailable this
// cycle", not as zero vacancies.
var ErrNoPayload = errors.New("no JSON payload in classifier response")

// Completer is the external inference collaborator. One call per cycle;
// the implementation enforces the request timeout. Calls are never retried
// here: a duplicate call against a paid backend costs real money, so a
// failed cycle is simply skipped until the next scheduled run.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// result is the payload shape produced by the model.
type result struct {
	Vacancies []vacancy.Record `json:"vacancies"`
}

// Classifier builds prompts and parses classification results.
type Classifier struct {
	completer Completer
	store     database.Store
	logger    *slog.Logger
	template  string
	now       func() time.Time
}

// New creates a Classifier. When templatePath is non-empty the instruction
// template is read from it, otherwise the built-in default is used.
func New(completer Completer, store database.Store, logger *slog.Logger, templatePath string) (*Classifier, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "classifier")

	template := DefaultPromptTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template %q: %w", templatePath, err)
		}
		template = string(data)
		log.Info("Loaded prompt template", "path", templatePath)
	}

	return &Classifier{
		completer: completer,
		store:     store,
		logger:    log,
		template:  template,
		now:       time.Now,
	}, nil
}

// Classify issues exactly one inference call for the whole message batch and
// returns the parsed vacancy records. A nil slice with a non-nil error means
// classification is unavailable this cycle; it never returns partial output.
//
// The raw model response is persisted under a timestamped audit key before
// parsing, so failed parses can be inspected later.
func (c *Classifier) Classify(ctx context.Context, messages []*fetch.Message, resume *profile.Resume) ([]vacancy.Record, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	prompt, err := c.buildPrompt(messages, resume)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Classifying messages", "message_count", len(messages), "prompt_size", len(prompt))

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("inference call failed: %w", err)
	}

	c.saveAudit(ctx, raw)

	payload, ok := ExtractJSON(raw)
	if !ok {
		c.logger.ErrorContext(ctx, "Classifier response has no JSON payload", "response_size", len(raw))
		return nil, ErrNoPayload
	}

	var res result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode classifier payload", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNoPayload, err)
	}

	for i := range res.Vacancies {
		res.Vacancies[i].Normalize()
	}

	c.logger.InfoContext(ctx, "Classification completed", "vacancies", len(res.Vacancies))
	return res.Vacancies, nil
}

func (c *Classifier) buildPrompt(messages []*fetch.Message, resume *profile.Resume) (string, error) {
	resumeJSON, err := resume.JSON()
	if err != nil {
		return "", err
	}

	messagesJSON, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize message batch: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.ReplaceAll(c.template, "{resume_content}", resumeJSON))
	sb.WriteString(messagesHeader)
	sb.Write(messagesJSON)
	return sb.String(), nil
}

// saveAudit persists the raw model output under a timestamped key,
// independent of whether parsing succeeds. Audit failures are logged only.
func (c *Classifier) saveAudit(ctx context.Context, raw string) {
	key := fmt.Sprintf("vacancy_results_%s", c.now().Format("20060102_150405"))
	if err := c.store.SaveSnapshot(ctx, key, database.SnapshotKindResults, []byte(raw)); err != nil {
		c.logger.WarnContext(ctx, "Failed to save classifier audit snapshot", "key", key, "error", err)
	}
}

// ExtractJSON locates the span between the first '{' and the last '}' in a
// model response. Inference responses are usually natural-language wrapped,
// often inside markdown fences; the brace span is the payload.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
