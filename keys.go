package relay

type Key string

const (
	// ExchangeIDKey stashes the id of the emit.Exchange an HTTP request is answered on.
	ExchangeIDKey Key = "ExchangeIDKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by relay.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "relay context key: " + string(k)
}
