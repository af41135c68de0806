/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError template used by NewError.
*/
package errs

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	ErrInvalidConfig:   {Code: ErrInvalidConfig, Message: "Invalid configuration: %s."},
	ErrInvalidUsername: {Code: ErrInvalidUsername, Message: "Username must not be empty."},

	ErrMalformedFrame:       {Code: ErrMalformedFrame, Message: "Frame is not valid JSON."},
	ErrUnknownMessageType:   {Code: ErrUnknownMessageType, Message: "Unknown message type %q."},
	ErrInvalidPayload:       {Code: ErrInvalidPayload, Message: "Invalid payload for %q message."},
	ErrMalformedChatMessage: {Code: ErrMalformedChatMessage, Message: "Chat message payload is malformed."},

	ErrChannelClosed:   {Code: ErrChannelClosed, Message: "Channel is closed."},
	ErrSendQueueFull:   {Code: ErrSendQueueFull, Message: "Send queue is full."},
	ErrChannelNotReady: {Code: ErrChannelNotReady, Message: "Channel is not ready."},

	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong."},
}
