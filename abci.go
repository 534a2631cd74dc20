package arbee

import (
	"fmt"

	"github.com/arbee-network/arbee/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Codespace is reported with every failed transaction so clients can tell
// ledger errors apart from those raised by tendermint itself.
const Codespace = "arbee"

// DeliverOrError returns the DeliverTx response for the outcome of a
// handler call.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the CheckTx response for the outcome of a handler
// call.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError converts err into a failed DeliverTx response. Outside of
// debug mode, errors without a registered code are redacted.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txError("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log, Codespace: Codespace}
}

// CheckTxError converts err into a failed CheckTx response. Outside of
// debug mode, errors without a registered code are redacted.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txError("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log, Codespace: Codespace}
}

func txError(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, fmt.Sprintf("cannot %s tx: %s", phase, log)
}
