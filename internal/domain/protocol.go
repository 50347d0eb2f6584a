package domain

const (
	// DefaultGreeting is sent to every client immediately after connect
	DefaultGreeting = "Hello, you have connected to the server."
	// ContentLabel prefixes the log content in the reply line
	ContentLabel = "File content: "
	// AppendErrorPrefix prefixes the best-effort line sent when an append fails
	AppendErrorPrefix = "Error in client handler: "
	// ReadErrorPrefix prefixes the best-effort line sent when the readback fails
	ReadErrorPrefix = "Error reading from file: "
	// LineTerminator ends every line on the wire and in the log
	LineTerminator = "\n"
)

// SessionState represents a step of the connection session
type SessionState string

const (
	// SessionStateStart - greeting is being sent
	SessionStateStart SessionState = "start"
	// SessionStateAwaitMessage - waiting for the client line
	SessionStateAwaitMessage SessionState = "await_message"
	// SessionStatePersist - appending the line to the log
	SessionStatePersist SessionState = "persist"
	// SessionStateReadback - reading the full log
	SessionStateReadback SessionState = "readback"
	// SessionStateReply - writing the content back
	SessionStateReply SessionState = "reply"
	// SessionStateClose - terminal success
	SessionStateClose SessionState = "close"
	// SessionStateFail - terminal failure
	SessionStateFail SessionState = "fail"
)
