package router

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
	}
}

const clientTTL = 3 * time.Minute

func (cl *clientLimiters) get(host string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	c, ok := cl.clients[host]
	if !ok {
		c = &client{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[host] = c
	}
	c.lastSeen = now

	if len(cl.clients) > 1024 {
		for h, other := range cl.clients {
			if now.Sub(other.lastSeen) > clientTTL {
				delete(cl.clients, h)
			}
		}
	}
	return c.limiter
}
