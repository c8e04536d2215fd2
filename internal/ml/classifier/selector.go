package classifier

import (
	"fmt"
	"log/slog"
	"sync"
)

// ClientSelector manages round-robin selection and failover across multiple
// classifier endpoints.
type ClientSelector struct {
	clients      []Client
	currentIndex int
	mutex        sync.Mutex
}

func NewClientSelector(clients []Client) *ClientSelector {
	return &ClientSelector{
		clients:      clients,
		currentIndex: 0,
	}
}

// GetNextClient returns the next client in round-robin order
func (s *ClientSelector) GetNextClient() (*Client, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.clients) == 0 {
		return nil, -1
	}

	client := &s.clients[s.currentIndex]
	index := s.currentIndex

	// Move to next client for next request
	s.currentIndex = (s.currentIndex + 1) % len(s.clients)

	return client, index
}

// GetClientCount returns total number of clients
func (s *ClientSelector) GetClientCount() int {
	return len(s.clients)
}

// TryAllClients attempts the operation with all clients until one succeeds
func (s *ClientSelector) TryAllClients(operation func(*Client, int) error) error {
	clientCount := s.GetClientCount()
	if clientCount == 0 {
		return fmt.Errorf("no classifier endpoints available")
	}

	var lastErr error
	errorsCollected := make([]string, 0, clientCount)

	for attempt := 0; attempt < clientCount; attempt++ {
		client, clientIdx := s.GetNextClient()

		slog.Info("Attempting classifier request",
			"client_index", clientIdx,
			"attempt", attempt+1,
			"total_clients", clientCount)

		err := operation(client, clientIdx)
		if err == nil {
			return nil
		}

		lastErr = err
		errorsCollected = append(errorsCollected, fmt.Sprintf("client[%d]: %v", clientIdx, err))

		slog.Warn("Classifier request failed, trying next endpoint",
			"client_index", clientIdx,
			"attempt", attempt+1,
			"error", err)
	}

	slog.Error("All classifier endpoints exhausted",
		"total_attempts", clientCount,
		"errors", errorsCollected)

	return fmt.Errorf("all %d classifier endpoints failed, last error: %w", clientCount, lastErr)
}
