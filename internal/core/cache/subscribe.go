package cache

type subscription struct {
	prefix string
	fn     func(Snapshot)
}

// Subscribe calls fn on every state change of prefix and of the keys below
// it. fn runs on the goroutine that caused the change and must not block.
// The returned func removes the subscription.
func (c *Client) Subscribe(prefix string, fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = subscription{prefix: prefix, fn: fn}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) notify(s Snapshot) {
	c.mu.Lock()
	var fns []func(Snapshot)
	for _, sub := range c.subs {
		if Matches(sub.prefix, s.Key) {
			fns = append(fns, sub.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
