package parser

import "github.com/kirovets/avro/pkg/grammar"

// NoopHandler ignores every action symbol; useful for tests that exercise
// grammar traversal without a resolving decoder attached.
type NoopHandler struct{}

func (NoopHandler) Act(*grammar.Symbol) error { return nil }

// FuncHandler adapts a plain function to ActionHandler.
type FuncHandler func(*grammar.Symbol) error

func (f FuncHandler) Act(sym *grammar.Symbol) error { return f(sym) }
