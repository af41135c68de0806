/*
Package errs provides custom error types and application-level error code constants.

These error codes classify every failure the chat client can observe: bad configuration,
undecodable wire frames, and frames that could not be handed to the channel.
*/
package errs

// 1xxx: Configuration and Local Input Errors
const (
	// ErrInvalidConfig indicates that an environment setting failed parsing or validation.
	ErrInvalidConfig = 1001

	// ErrInvalidUsername indicates that the local display name is empty after trimming.
	ErrInvalidUsername = 1002
)

// 2xxx: Decode Errors (malformed inbound frames)
const (
	// ErrMalformedFrame indicates that the frame text is not valid JSON.
	ErrMalformedFrame = 2001

	// ErrUnknownMessageType indicates that the messageType discriminant is missing or not a known tag.
	ErrUnknownMessageType = 2002

	// ErrInvalidPayload indicates that a field required by the tag is absent or mistyped.
	ErrInvalidPayload = 2003

	// ErrMalformedChatMessage indicates that the nested {from, message} record could not be decoded.
	ErrMalformedChatMessage = 2004
)

// 3xxx: Submit Errors (outbound frame could not be handed to the channel)
const (
	// ErrChannelClosed indicates that the channel has been closed.
	ErrChannelClosed = 3001

	// ErrSendQueueFull indicates that the outbound queue has no free slot.
	ErrSendQueueFull = 3002

	// ErrChannelNotReady indicates that the channel has not finished connecting.
	ErrChannelNotReady = 3003
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
