// Package parser implements the stack-based production engine that drives
// symbol-by-symbol decoding against a compiled grammar.
// It is a direct, non-generic port of the classic Avro parser state
// machine: a stack of pending Symbols, advanced one terminal at a time,
// with ImplicitAction symbols processed automatically as they surface.
package parser

import (
	"fmt"

	"github.com/kirovets/avro/pkg/grammar"
)

// ActionHandler lets a caller intercept ImplicitAction/ExplicitAction
// symbols as they are popped off the stack, instead of the engine
// discarding them. The datum layer builds its engines with a nil handler:
// the plain (non-resolving) grammar it drives has no action symbols, and
// the resolving binary read walks its plan without an engine.
type ActionHandler interface {
	// Act is called when the engine pops a symbol of Kind ImplicitAction or
	// ExplicitAction. input is the symbol as it appeared in the production
	// being advanced.
	Act(sym *grammar.Symbol) error
}

// Engine walks a compiled grammar one terminal at a time. It owns a single
// growable stack, mirroring the classic implementation's manual array
// management.
type Engine struct {
	stack   []*grammar.Symbol
	handler ActionHandler
}

// NewEngine seeds a fresh engine with root as the sole stack entry.
func NewEngine(root *grammar.Symbol, handler ActionHandler) *Engine {
	e := &Engine{
		stack:   make([]*grammar.Symbol, 0, 16),
		handler: handler,
	}
	e.pushSymbol(root)
	return e
}

func (e *Engine) Depth() int { return len(e.stack) }

func (e *Engine) pushSymbol(s *grammar.Symbol) {
	if len(e.stack) == cap(e.stack) {
		grown := make([]*grammar.Symbol, len(e.stack), (cap(e.stack)*3)/2+1)
		copy(grown, e.stack)
		e.stack = grown
	}
	e.stack = append(e.stack, s)
}

func (e *Engine) popSymbol() *grammar.Symbol {
	n := len(e.stack)
	s := e.stack[n-1]
	e.stack = e.stack[:n-1]
	return s
}

func (e *Engine) topSymbol() *grammar.Symbol {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// pushProduction pushes a symbol's production in reverse order, so that
// production[0] ends up on top of the stack and is the next symbol popped.
func (e *Engine) pushProduction(sym *grammar.Symbol) {
	prod := sym.Production
	for i := len(prod) - 1; i >= 0; i-- {
		e.pushSymbol(prod[i])
	}
}

// Advance pops symbols off the stack, expanding NonTerminals and running
// ImplicitActions, until it finds a Terminal. It then verifies that
// terminal matches expected and returns the popped symbol.
//
// This mirrors the reference Parser.advance(Symbol) contract: the caller
// names the terminal it is about to consume (e.g. grammar.Int before
// reading an int), and the engine fast-forwards past any bookkeeping
// symbols in between.
func (e *Engine) Advance(expected *grammar.Symbol) (*grammar.Symbol, error) {
	for {
		if len(e.stack) == 0 {
			return nil, fmt.Errorf("parser: stack exhausted, expected %s", expected.Label)
		}
		top := e.popSymbol()

		switch top.Kind {
		case grammar.Terminal:
			if top != expected {
				// Repeater self-reference and shared singleton terminals
				// are compared by identity; a mismatch here means the
				// grammar and the caller's read sequence disagree.
				return nil, fmt.Errorf("parser: expected symbol %s, found %s", expected.Label, top.Label)
			}
			return top, nil

		case grammar.NonTerminal:
			e.pushProduction(top)

		case grammar.Repeater:
			e.pushProduction(top)

		case grammar.ImplicitAction, grammar.ExplicitAction:
			if e.handler != nil {
				if err := e.handler.Act(top); err != nil {
					return nil, err
				}
			}
			// An action symbol may itself carry a production to splice in
			// (e.g. DefaultStartAction pushing a synthetic reader for the
			// materialized default value).
			if top.Production != nil {
				e.pushProduction(top)
			}

		default:
			return nil, fmt.Errorf("parser: unexpected symbol kind for %s", top.Label)
		}
	}
}

// AdvanceRepeater is called when the caller is about to decide whether
// another block item follows (array/map iteration). It peeks the top
// symbol: if it is the Repeater itself, the caller should read another
// item and call this again; if it is the block's End terminal, iteration
// is over. countToFirstTerminal in the reference implementation folds
// this into advance(); this engine keeps it explicit so datum code can
// drive block counts without re-deriving repeater semantics.
func (e *Engine) AdvanceRepeater() (isEnd bool, err error) {
	for {
		if len(e.stack) == 0 {
			return false, fmt.Errorf("parser: stack exhausted awaiting repeater or block end")
		}
		top := e.topSymbol()
		switch top.Kind {
		case grammar.Terminal:
			e.popSymbol()
			return true, nil // the block End terminal
		case grammar.Repeater:
			return false, nil // leave it on the stack; caller pops via Advance on the item
		case grammar.NonTerminal:
			e.popSymbol()
			e.pushProduction(top)
		case grammar.ImplicitAction, grammar.ExplicitAction:
			e.popSymbol()
			if e.handler != nil {
				if err := e.handler.Act(top); err != nil {
					return false, err
				}
			}
			if top.Production != nil {
				e.pushProduction(top)
			}
		default:
			return false, fmt.Errorf("parser: unexpected symbol kind awaiting repeater")
		}
	}
}

// Union pops the union symbol expected at the top of the stack and
// returns its AlternativeData. A union carries no fixed production —
// which branch symbol applies is a data-dependent choice only the caller
// can make (reading the wire's union index, or inspecting a JSON tag) —
// so the caller picks a branch and pushes it back with PushSymbol before
// continuing.
func (e *Engine) Union() (*grammar.AlternativeData, error) {
	if len(e.stack) == 0 {
		return nil, fmt.Errorf("parser: stack exhausted awaiting union")
	}
	top := e.popSymbol()
	alt, ok := top.Data.(*grammar.AlternativeData)
	if !ok {
		return nil, fmt.Errorf("parser: expected union symbol, found %s", top.Label)
	}
	return alt, nil
}

// PushSymbol pushes sym as the next symbol Advance/Union will resolve,
// redirecting the engine to a symbol chosen out-of-band (a union's
// selected branch).
func (e *Engine) PushSymbol(sym *grammar.Symbol) {
	e.pushSymbol(sym)
}

// EndRepeater is called once the caller's own wire block-count protocol
// (ReadBlockCount hitting zero, or the write-side counterpart) reports no
// further items: it discards the Repeater symbol without re-expanding its
// production, so the block's End terminal becomes the next symbol Advance
// resolves. Block length is a wire-level concept the grammar has no
// visibility into, so termination is always driven by the caller, not by
// the engine sniffing ahead.
func (e *Engine) EndRepeater() error {
	top := e.popSymbol()
	if top.Kind != grammar.Repeater {
		return fmt.Errorf("parser: EndRepeater called with non-repeater top %s", top.Label)
	}
	return nil
}

// PopRepeater consumes the Repeater symbol itself once the caller has
// decided (via AdvanceRepeater returning isEnd=false) to take another
// item, pushing its production (item symbol + self-reference) so the next
// Advance call resolves the item's terminal.
func (e *Engine) PopRepeater() error {
	top := e.popSymbol()
	if top.Kind != grammar.Repeater {
		return fmt.Errorf("parser: PopRepeater called with non-repeater top %s", top.Label)
	}
	e.pushProduction(top)
	return nil
}

// SkipTerminal discards symbols exactly like Advance, but without
// requiring the caller to name the terminal in advance, and returns the
// first Terminal it reaches. The resolving binary reader does not use it:
// pkg/datum skips a writer-only value by walking the SkipActionData's
// WriterSymbol directly.
func (e *Engine) SkipTerminal() (*grammar.Symbol, error) {
	for {
		if len(e.stack) == 0 {
			return nil, fmt.Errorf("parser: stack exhausted during skip")
		}
		top := e.popSymbol()
		switch top.Kind {
		case grammar.Terminal:
			return top, nil
		case grammar.NonTerminal, grammar.Repeater:
			e.pushProduction(top)
		case grammar.ImplicitAction, grammar.ExplicitAction:
			if e.handler != nil {
				if err := e.handler.Act(top); err != nil {
					return nil, err
				}
			}
			if top.Production != nil {
				e.pushProduction(top)
			}
		default:
			return nil, fmt.Errorf("parser: unexpected symbol kind during skip")
		}
	}
}
