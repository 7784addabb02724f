package ledger

import (
	"errors"
	"fmt"
)

// Code identifica a regra de negócio violada. Toda falha do ledger chega ao
// chamador como *Error com um destes códigos — nunca é engolida.
type Code string

const (
	CodeInvalidStake        Code = "invalid_stake"
	CodeNotFound            Code = "not_found"
	CodeMarketNotOpen       Code = "market_not_open"
	CodeInvalidMarketState  Code = "invalid_market_state"
	CodeInvalidTransition   Code = "invalid_transition"
	CodeInsufficientBalance Code = "insufficient_balance"
	CodeMarketLocked        Code = "market_locked"
	CodeNegativeResult      Code = "negative_result"
	CodeValidation          Code = "validation_error"
)

// Error é a falha de regra de negócio do ledger. Detectada sempre antes de
// qualquer mutação: quando um *Error é retornado, nada foi persistido.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// E monta um *Error com mensagem formatada
func E(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extrai o código de negócio de um erro, se houver
func CodeOf(err error) (Code, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Code, true
	}
	return "", false
}
