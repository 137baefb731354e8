package model

// ConnectionStatus describes the pipeline socket from the UI's point of view.
type ConnectionStatus string

const (
	ConnectionConnecting   ConnectionStatus = "connecting"
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionDisconnected ConnectionStatus = "disconnected"
	// ConnectionFinished is reported once, when no further sessions will follow.
	ConnectionFinished ConnectionStatus = "finished"
)

// Connection is a transport status update.
type Connection struct {
	Address string
	Session string
	Status  ConnectionStatus
	Err     error
}
