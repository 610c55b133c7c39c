package domain

// Assignment describes what a transition does to Order.StaffID.
type Assignment int

const (
	AssignKeep Assignment = iota
	AssignSet
	AssignClear
)

// Transition is the outcome of applying a lifecycle action to an order.
type Transition struct {
	Next       OrderStatus
	Assignment Assignment
}

// claimTable maps the current status to the status a claim moves the order
// into. Statuses missing from the table are pre-pickup and become
// Pickup Scheduled.
var claimTable = map[OrderStatus]OrderStatus{
	StatusProcessing:       StatusWashing,
	StatusPickupCompleted:  StatusWashing,
	StatusReadyForDelivery: StatusReadyForDelivery,
}

// unassignedCheckpoints are the statuses that return an order to the
// unassigned pool so any staff member can claim the next stage.
var unassignedCheckpoints = map[OrderStatus]bool{
	StatusPickupCompleted:  true,
	StatusReadyForDelivery: true,
}

// ClaimTransition decides the claim outcome from the current status only.
func ClaimTransition(current OrderStatus) Transition {
	next, ok := claimTable[current]
	if !ok {
		next = StatusPickupScheduled
	}
	return Transition{Next: next, Assignment: AssignSet}
}

// SetStatusTransition is the generic status setter. Entering an unassigned
// checkpoint clears the staff assignment.
func SetStatusTransition(target OrderStatus) Transition {
	if unassignedCheckpoints[target] {
		return Transition{Next: target, Assignment: AssignClear}
	}
	return Transition{Next: target, Assignment: AssignKeep}
}

// Apply mutates the order according to t. staffID is only read for AssignSet.
func (o *Order) Apply(t Transition, staffID int64) {
	o.Status = t.Next
	switch t.Assignment {
	case AssignSet:
		id := staffID
		o.StaffID = &id
	case AssignClear:
		o.StaffID = nil
	}
	o.RecomputeTotal()
}
