package classifier

import (
	"context"
	"crop-recommendation-service/internal/config"
	"crop-recommendation-service/internal/models"
	"time"
)

type IClassifier interface {
	PredictTopK(ctx context.Context, features models.FeatureVector, k int) ([]Prediction, error)
}

// Service fronts one or more classifier endpoints with round-robin failover.
type Service struct {
	selector *ClientSelector
}

func NewService(cfg config.ClassifierConfig) IClassifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	clients := make([]Client, 0, len(cfg.URLs))
	for _, u := range cfg.URLs {
		clients = append(clients, NewClient(u, timeout))
	}
	return &Service{selector: NewClientSelector(clients)}
}

// PredictTopK asks the classifier pool for the top-k crops for a feature
// vector, trying every endpoint before giving up.
func (s *Service) PredictTopK(ctx context.Context, features models.FeatureVector, k int) ([]Prediction, error) {
	var predictions []Prediction
	err := s.selector.TryAllClients(func(client *Client, _ int) error {
		out, err := client.Predict(ctx, features, k)
		if err != nil {
			return err
		}
		predictions = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return predictions, nil
}
