package presence

// Client is a live connection as seen by the presence hub. Updates carries
// online-user snapshots destined for the connection's write loop.
type Client struct {
	ID      string
	Updates chan []string
}

// NewClient constructs a client with an initialized update channel.
func NewClient(id string) *Client {
	return &Client{
		ID:      id,
		Updates: make(chan []string, 8),
	}
}
