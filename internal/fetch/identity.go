package fetch

import (
	"math/rand/v2"
	"net/url"
)

// Identity is the client identity used for a single fetch attempt.
type Identity struct {
	// UserAgent is sent as the User-Agent header.
	UserAgent string

	// Proxy is the proxy endpoint to route through. Nil means direct.
	Proxy *url.URL
}

// IdentityPicker chooses the identity for each fetch attempt.
// Implementations must be safe for concurrent use.
type IdentityPicker interface {
	Pick(target *url.URL) Identity
}

// RandomPicker picks a user-agent uniformly at random from its pool.
// For https targets it also picks a proxy uniformly at random when the
// proxy pool is not empty; plain http targets always go direct.
type RandomPicker struct {
	userAgents []string
	proxies    []*url.URL
	intN       func(n int) int
}

// NewRandomPicker creates a RandomPicker. The slices are copied.
func NewRandomPicker(userAgents []string, proxies []*url.URL) (*RandomPicker, error) {
	if len(userAgents) == 0 {
		return nil, ErrNoUserAgents
	}
	return &RandomPicker{
		userAgents: append([]string(nil), userAgents...),
		proxies:    append([]*url.URL(nil), proxies...),
		intN:       rand.IntN,
	}, nil
}

// Pick returns a freshly drawn identity for target.
func (p *RandomPicker) Pick(target *url.URL) Identity {
	id := Identity{UserAgent: p.userAgents[p.intN(len(p.userAgents))]}
	if target != nil && target.Scheme == "https" && len(p.proxies) > 0 {
		id.Proxy = p.proxies[p.intN(len(p.proxies))]
	}
	return id
}
