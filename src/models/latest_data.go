package models

// -----------------------------------------------------------------------------
// Hub message pushed to websocket clients
// -----------------------------------------------------------------------------

type MHubMessage struct {
	Type      string             `json:"type"` // "INITIAL" or "UPDATE"
	Summaries []MForecastSummary `json:"summaries"`
	Timestamp int64              `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string   `json:"command"`
	Symbols []string `json:"symbols"`
}
