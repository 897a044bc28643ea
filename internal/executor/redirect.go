package executor

import (
	"errors"

	"mysh/internal/parser"
)

// ErrRedirect is wrapped by every RedirectError.
var ErrRedirect = errors.New("redirect error")

type RedirectKind int

const (
	// RedirectMultiple means more than one > in a command.
	RedirectMultiple RedirectKind = iota
	// RedirectTrailingArgs means more than one token follows >.
	RedirectTrailingArgs
	// RedirectMissing means > has no command before it or no file after it.
	RedirectMissing
)

// RedirectError is a rejected output redirection. Its text is what the user sees.
type RedirectError struct {
	Kind RedirectKind
}

func (e *RedirectError) Error() string {
	switch e.Kind {
	case RedirectMultiple:
		return "Redirect Error: More than 1 >"
	case RedirectTrailingArgs:
		return "Redirect Error: args > 1 after >"
	default:
		return "Redirect Error: No file or command"
	}
}

func (e *RedirectError) Unwrap() error { return ErrRedirect }

// parseRedirection strips a single "> file" from tokens. outFile is empty when
// the command has no redirection.
func parseRedirection(tokens []string) (clean []string, outFile string, err error) {
	at := -1
	for i, tok := range tokens {
		if tok != parser.RedirectOut {
			continue
		}
		if at >= 0 {
			return nil, "", &RedirectError{Kind: RedirectMultiple}
		}
		at = i
	}

	if at < 0 {
		return tokens, "", nil
	}
	if len(tokens)-at > 2 {
		return nil, "", &RedirectError{Kind: RedirectTrailingArgs}
	}
	if at == 0 || at == len(tokens)-1 {
		return nil, "", &RedirectError{Kind: RedirectMissing}
	}

	return tokens[:at], tokens[at+1], nil
}
