package bridge

// routeHandler processes the payload of one inbound command message.
// A returned error is logged at the dispatch boundary; it never stops
// the loop.
type routeHandler func(payload []byte) error

// route is one writable topic with its bound handler. Arguments such
// as the switch number are captured by the handler closure when the
// table is built.
type route struct {
	topic  string
	handle routeHandler
}

// router maps inbound topics to handlers by exact match. The table is
// built once at startup and read-only afterwards.
type router struct {
	entries map[string]route
	topics  []string
}

func newRouter() *router {
	return &router{entries: make(map[string]route)}
}

func (r *router) add(topic string, handle routeHandler) {
	if _, dup := r.entries[topic]; dup {
		return
	}
	r.entries[topic] = route{topic: topic, handle: handle}
	r.topics = append(r.topics, topic)
}

func (r *router) lookup(topic string) (route, bool) {
	entry, ok := r.entries[topic]
	return entry, ok
}

// topicList returns the subscription topics in registration order.
func (r *router) topicList() []string {
	return r.topics
}
