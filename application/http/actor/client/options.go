package client

const DefaultUserAgent = "http-engine/1.0"

type Options struct {
	// UserAgent is sent unless the request carries its own User-Agent.
	// Empty means DefaultUserAgent.
	UserAgent string

	// Async starts a worker running requests handed to Client.Submit.
	Async bool

	// Metrics is optional.
	Metrics *Metrics
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}
