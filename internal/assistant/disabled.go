package assistant

import "context"

// DisabledService is the Service used when no API key is configured.
// Every chat attempt returns ErrUnavailable.
type DisabledService struct{}

// NewDisabledService creates a Service that rejects all requests.
func NewDisabledService() *DisabledService { return &DisabledService{} }

// Ensure DisabledService implements Service
var _ Service = (*DisabledService)(nil)

// Available implements Service.Available
func (*DisabledService) Available() bool { return false }

// Chat implements Service.Chat
func (*DisabledService) Chat(context.Context, []Message, ChatContext) (*Message, error) {
	return nil, ErrUnavailable
}
