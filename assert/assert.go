package assert

import "github.com/oomph-ac/posesync/oerror"

// IsTrue panics with a formatted *oerror.SyncError if ok is false. It is used for
// programming-contract violations that must fail fast.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
