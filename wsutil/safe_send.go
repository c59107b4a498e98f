package wsutil

import "log/slog"

// SafeSend delivers data to a connection's send channel without ever
// blocking or panicking. A full or closed channel drops the message;
// slow or dead peers must not stall game loops.
func SafeSend(ch chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("send on closed channel", "tag", "wsutil", "recovered", r)
		}
	}()
	select {
	case ch <- data:
	default:
	}
}
