package textcore

// A ChangeEvent is delivered after every mutation of the text, including
// undo and redo. Range is the affected character span, letting hosts repaint
// incrementally.
type ChangeEvent struct {
	Range Range
}

// Subscription ties a change callback to an editor. Closing it detaches the
// callback; a closed subscription never fires again.
type Subscription struct {
	e  *Editor
	fn func(ChangeEvent)
}

// OnChange registers fn to run after each text mutation. The callback runs
// synchronously on the mutating call. Callers keep the returned subscription
// and close it when they are done listening.
func (e *Editor) OnChange(fn func(ChangeEvent)) *Subscription {
	sub := &Subscription{e: e, fn: fn}
	e.subs = append(e.subs, sub)
	return sub
}

func (s *Subscription) Close() {
	if s.e == nil {
		return
	}
	subs := s.e.subs
	for i, sub := range subs {
		if sub == s {
			s.e.subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.e = nil
	s.fn = nil
}

// notify delivers the event to a copy of the subscriber list: a callback may
// close subscriptions mid-delivery, and that must not skip anyone.
func (e *Editor) notify(rng Range) {
	subs := append([]*Subscription(nil), e.subs...)
	for _, sub := range subs {
		if sub.fn != nil {
			sub.fn(ChangeEvent{Range: rng})
		}
	}
}
