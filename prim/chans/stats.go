package chans

// Stats are the stats for a Queue. Each field is read atomically, but not all
// fields are read at the same instant.
type Stats struct {
	// Sent is the number of Send() calls that completed.
	Sent int64
	// Received is the number of items handed out by Receive() and TryReceive().
	Received int64
	// Drained is the number of items removed by Drain().
	Drained int64
	// Waiting is the number of receivers currently waiting for an item.
	Waiting int64
}
