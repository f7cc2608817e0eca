package model

// ChatCommand is a bot command received from the chat platform, already stripped of its slash.
type ChatCommand struct {
	Identity Identity
	Command  string
	Args     string
}

// LinkButton is rendered by the chat platform as a clickable button under a message.
type LinkButton struct {
	Text string
	URL  string
}
