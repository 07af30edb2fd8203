package sse

import "time"

const (
	BroadcastBufferSize = 100
	// ClientEventBuffer is per stream; a slow client drops events past it
	ClientEventBuffer = 50

	KeepaliveInterval = 30 * time.Second
	// ReconnectDelay is sent as the retry hint when a stream opens
	ReconnectDelay = 3 * time.Second
)

// Stream control messages. Bus events keep their own type names.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Forwarding event to SSE streams"
	LogMsgEventDropped       = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgSubscribed         = "SSE bridge subscribed"
	LogMsgUnsubscribed       = "SSE bridge unsubscribed"
)
