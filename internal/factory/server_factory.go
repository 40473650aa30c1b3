package factory

import (
	"github.com/mikey/phishing-relay/internal/adapters/httpapi"
	"github.com/mikey/phishing-relay/internal/config"
	"github.com/mikey/phishing-relay/internal/core"
	"github.com/mikey/phishing-relay/internal/ports"
	"go.uber.org/zap"
)

// ServerFactory creates the HTTP ingress based on configuration
type ServerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.RelayService
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger, service *core.RelayService) *ServerFactory {
	return &ServerFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateAPIServer creates the HTTP API server
func (f *ServerFactory) CreateAPIServer() (ports.APIServer, error) {
	serverCfg := f.cfg.GetServer()
	return httpapi.NewServer(
		f.service,
		f.logger,
		serverCfg.Port,
		serverCfg.MaxBodyBytes,
	), nil
}
