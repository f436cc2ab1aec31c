package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/models"
)

// connectError maps a ledger error onto a Connect status code.
func connectError(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, models.ErrInvalidAmount) || errors.Is(err, models.ErrUnknownCurrency) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(codeFor(ledger.Kind(err)), err)
}

func codeFor(kind string) connect.Code {
	switch kind {
	case ledger.KindInvalidInput, ledger.KindInvalidSplitInput:
		return connect.CodeInvalidArgument
	case ledger.KindNotFound:
		return connect.CodeNotFound
	case ledger.KindUnauthorized:
		return connect.CodePermissionDenied
	case ledger.KindAlreadyMember:
		return connect.CodeAlreadyExists
	case ledger.KindPersistence:
		return connect.CodeUnavailable
	case ledger.KindCanceled:
		return connect.CodeCanceled
	default:
		return connect.CodeInternal
	}
}
