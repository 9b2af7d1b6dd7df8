// Package words supplies the secret word for a round of the spy game.
//
// A Provider turns a category into one sanitised word. Anything that is not
// exactly one non-empty word counts as a failure, the same as a network error.
package words

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/kiliankoe/impostrico/internal/ai"
)

var (
	ErrUnusableWord    = errors.New("provider returned an unusable word")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownProvider = errors.New("unknown word provider")
)

// DefaultSystemPrompt keeps model answers to a bare word.
const DefaultSystemPrompt = "أجب بكلمة عربية واحدة فقط بدون أي شرح أو علامات ترقيم."

// Provider suggests a secret word for a category.
type Provider interface {
	Suggest(ctx context.Context, category string) (string, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(ctx context.Context, category string) (string, error)

func (f ProviderFunc) Suggest(ctx context.Context, category string) (string, error) {
	return f(ctx, category)
}

// Prompt builds the request sent to a language model for category.
func Prompt(category string) string {
	return fmt.Sprintf("اقترح كلمة عربية شائعة من فئة \"%s\". يجب أن تكون الكلمة اسمًا واحدًا فقط بدون أي علامات ترقيم أو وصف. لا تقم بتضمين أي شيء آخر في الرد، فقط الكلمة.", category)
}

var stripInner = strings.NewReplacer(".", "", "\"", "")

// Sanitize strips whitespace, quotes and punctuation around raw and checks
// that a single word remains.
func Sanitize(raw string) (string, error) {
	w := stripInner.Replace(strings.TrimSpace(raw))
	w = strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if w == "" {
		return "", fmt.Errorf("%w: empty", ErrUnusableWord)
	}
	if strings.IndexFunc(w, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q is more than one word", ErrUnusableWord, w)
	}
	return w, nil
}

// AIProvider asks a language model for the word.
type AIProvider struct {
	LLM          ai.Provider
	Model        string
	SystemPrompt string
}

func (p *AIProvider) Suggest(ctx context.Context, category string) (string, error) {
	if p.LLM == nil {
		return "", ErrUnknownProvider
	}
	sys := p.SystemPrompt
	if sys == "" {
		sys = DefaultSystemPrompt
	}
	text, err := p.LLM.CompleteWithSystem(ctx, p.Model, sys, Prompt(category))
	if err != nil {
		return "", fmt.Errorf("suggest word for %q: %w", category, err)
	}
	return Sanitize(text)
}

// StaticProvider draws from the built-in word lists. It needs no network.
type StaticProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewStaticProvider(r *rand.Rand) *StaticProvider {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StaticProvider{rnd: r}
}

func (p *StaticProvider) Suggest(ctx context.Context, category string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	list, ok := staticWords[category]
	if !ok || len(list) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return list[p.rnd.Intn(len(list))], nil
}

// Select returns the provider registered under name. "static" is always
// available; other names are looked up in llms.
func Select(name string, llms map[string]ai.Provider, model, systemPrompt string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "static" {
		return NewStaticProvider(nil), nil
	}
	llm, ok := llms[name]
	if !ok || llm == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return &AIProvider{LLM: llm, Model: model, SystemPrompt: systemPrompt}, nil
}
