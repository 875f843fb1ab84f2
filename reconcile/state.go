package reconcile

import "github.com/oomph-ac/posesync/entity"

// state is what the reconciler is currently moving towards. It is either trackingCurrent or
// trackingPending.
type state interface {
	state()
}

// trackingCurrent means there is no newer snapshot than current.
type trackingCurrent struct{}

// trackingPending means next was received while current is still being approached.
type trackingPending struct {
	next entity.Snapshot
}

func (trackingCurrent) state() {}
func (trackingPending) state() {}
