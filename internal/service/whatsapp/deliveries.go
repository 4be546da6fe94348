package whatsapp

import "sync"

// defaultDeliveryMemory bounds how many inbound message ids are remembered.
const defaultDeliveryMemory = 1024

// deliveryLog remembers recently processed inbound message ids so a webhook
// redelivered by Meta does not run the same command twice.
type deliveryLog struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	limit int
}

func newDeliveryLog(limit int) *deliveryLog {
	return &deliveryLog{
		ids:   make(map[string]struct{}, limit),
		order: make([]string, 0, limit),
		limit: limit,
	}
}

// firstDelivery records id and reports whether it had not been seen before.
// The oldest id is forgotten once the log is full.
func (l *deliveryLog) firstDelivery(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, seen := l.ids[id]; seen {
		return false
	}

	if len(l.order) == l.limit {
		delete(l.ids, l.order[0])
		l.order = l.order[1:]
	}
	l.ids[id] = struct{}{}
	l.order = append(l.order, id)
	return true
}
