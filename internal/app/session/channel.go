package session

//go:generate mockgen -source=channel.go -destination=mocks/mock_channel.go -package=mocks

// Channel is the outbound half of the duplex text channel.
// Send enqueues text for transmission and returns without waiting for delivery.
type Channel interface {
	Send(text string) error
}
