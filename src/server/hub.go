package server

import (
	"encoding/json"
	"net/http"
	"time"

	"stock-forecaster/src/models"
	"stock-forecaster/src/presenter"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	MessageInitial = "INITIAL"
	MessageUpdate  = "UPDATE"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *HTTPServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Add(1)
			s.sendTo(client, s.initialMessage(client))

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.connections.Add(-1)
			}

		case summary := <-s.broadcast:
			msg := &models.MHubMessage{
				Type:      MessageUpdate,
				Summaries: []models.MForecastSummary{presenter.RoundedForecastSummary(summary)},
				Timestamp: time.Now().Unix(),
			}
			for client := range s.clients {
				if !client.wants(summary.Ticker) {
					continue
				}
				s.sendTo(client, msg)
			}
		}
	}
}

// -----------------------------------------------------------------------------

// sendTo queues msg for client, dropping clients too slow to keep up.
// Must only be called from the hub goroutine.
func (s *HTTPServer) sendTo(client *Client, msg *models.MHubMessage) {
	select {
	case client.send <- msg:
	default:
		s.Logger.Warning("Dropping slow websocket client")
		delete(s.clients, client)
		close(client.send)
		s.connections.Add(-1)
	}
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) initialMessage(client *Client) *models.MHubMessage {
	summaries := make([]models.MForecastSummary, 0)
	for _, summary := range s.Pipeline.RecentSummaries() {
		if client.wants(summary.Ticker) {
			summaries = append(summaries, presenter.RoundedForecastSummary(summary))
		}
	}
	return &models.MHubMessage{
		Type:      MessageInitial,
		Summaries: summaries,
		Timestamp: time.Now().Unix(),
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a summary for every subscribed client. It never blocks
// the caller; summaries are dropped when the queue is full.
func (s *HTTPServer) Broadcast(summary models.MForecastSummary) {
	select {
	case s.broadcast <- summary:
	default:
		s.Logger.Warning("Broadcast queue full, dropping summary for %s", summary.Ticker)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := newClient(s, conn)

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage applies a subscribe command and replies with the
// matching recent summaries. Malformed commands close the connection.
func (s *HTTPServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	client.subscribe(cmd.Symbols)

	summaries := make([]models.MForecastSummary, 0)
	for _, summary := range s.Pipeline.RecentSummaries() {
		if client.wants(summary.Ticker) {
			summaries = append(summaries, presenter.RoundedForecastSummary(summary))
		}
	}
	client.reply(&models.MHubMessage{
		Type:      MessageInitial,
		Summaries: summaries,
		Timestamp: time.Now().Unix(),
	})
}
