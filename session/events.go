package session

const subscriptionBuffer = 16

// Subscribe returns a channel of state transitions and an unsubscribe
// function. Delivery is best effort: a subscriber that falls more than
// subscriptionBuffer events behind misses the older ones.
func (m *Manager) Subscribe() (<-chan Transition, func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Transition, subscriptionBuffer)
	m.subs[id] = ch

	unsubscribe := func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

func (m *Manager) transitionLocked(to State, cause Cause) {
	from := m.state
	m.state = to

	tr := Transition{From: from, To: to, Cause: cause, At: m.nowFunc()}
	m.logger.Debug().
		Stringer("from", from).
		Stringer("to", to).
		Str("cause", string(cause)).
		Str("session_instance", m.instanceID).
		Msg("session state transition")

	for _, ch := range m.subs {
		select {
		case ch <- tr:
		default:
		}
	}
}
