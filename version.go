package arbee

import "fmt"

// Release of the arbee node. Suffix is empty for tagged releases.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// AppVersion identifies the rules of the ledger state machine. It changes
// whenever the same block would produce a different state.
const AppVersion uint64 = 1

// GitCommit is set by build flags
var GitCommit = ""

// Version returns the release string, followed by the commit when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
