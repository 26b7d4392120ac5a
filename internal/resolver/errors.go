package resolver

import (
	"errors"
	"fmt"
)

// Kind classifica a falha do resolver.
type Kind string

const (
	KindNetwork         Kind = "E_RESOLVE_NETWORK"
	KindInvalidResponse Kind = "E_RESOLVE_INVALID_RESPONSE"
	KindInvalidEndpoint Kind = "E_RESOLVE_INVALID_ENDPOINT"
)

// Error é o erro tipado devolvido por Resolve
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf retorna a classificação de err, ou "" se não for um *Error.
func KindOf(err error) Kind {
	var resolveErr *Error
	if errors.As(err, &resolveErr) && resolveErr != nil {
		return resolveErr.Kind
	}
	return ""
}
