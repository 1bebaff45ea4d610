package chrome

import (
	"context"
	"net/http"

	"github.com/sitewire/sitewire/internal/dispatch"
	"github.com/sitewire/sitewire/internal/envelope"
)

// Service loads site chrome through the dispatcher so repeated loads
// hit the response cache.
type Service struct {
	dispatcher *dispatch.Dispatcher
	endpoint   string
}

// NewService creates a Service fetching from the given endpoint URL.
func NewService(d *dispatch.Dispatcher, endpoint string) *Service {
	return &Service{dispatcher: d, endpoint: endpoint}
}

// Load fetches and decodes the chrome payload.
func (s *Service) Load(ctx context.Context) (*Chrome, error) {
	result, err := s.dispatcher.Send(ctx, dispatch.Request{
		URL:    s.endpoint,
		Method: http.MethodGet,
		Options: dispatch.Options{
			JSON:         true,
			ResponseType: envelope.TypeDefault,
			SkipHandling: true,
		},
	})
	if err != nil {
		return nil, err
	}
	return Decode(result.Body)
}
