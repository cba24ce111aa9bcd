package order

import "slices"

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// itemsEditable reports whether line items may still change under s.
func (s Status) itemsEditable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func checkTransition(from, to Status) error {
	if from.IsTerminal() {
		return errTerminalStatus(from)
	}
	if !from.CanTransitionTo(to) {
		return errInvalidTransition(from, to)
	}
	return nil
}
