package room

// Conn is the outbound half of a client connection. The manager only ever
// sends; reading and closing belong to the transport that owns the
// socket. Send must not block the coordinator: implementations queue the
// message or fail fast, and an error return is treated as a dead peer.
type Conn interface {
	Send(v any) error
}
