// Package completion wraps the text-completion services the analysis engine
// delegates to. A Completer takes a prompt plus generation parameters and
// returns the completion text or an error; callers own all fallback policy.
package completion

import "context"

// Params are the generation parameters the engine is allowed to set.
type Params struct {
	MaxTokens   int
	Temperature float32
}

// Completer is the boundary to a text-completion service. A single blocking
// call that either returns text or fails; repeated calls may phrase their
// output differently, so results must not be assumed cacheable.
type Completer interface {
	Complete(ctx context.Context, prompt string, params Params) (string, error)
}

// Func adapts a plain function to the Completer interface.
type Func func(ctx context.Context, prompt string, params Params) (string, error)

func (f Func) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	return f(ctx, prompt, params)
}
