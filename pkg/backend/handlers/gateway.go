package handlers

import (
	"context"
	"fmt"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/forwarder"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/hostresolver"
	"go.uber.org/zap"
)

// Forwarder is what the gateway handlers need from the forwarding core
type Forwarder interface {
	ForwardCover(ctx context.Context, req forwarder.CoverRequest, baseURL string) (forwarder.CoverResult, error)
	ForwardSignup(ctx context.Context, creds forwarder.Credentials, baseURL string) (catalog.RelayResult, error)
	ForwardLogin(ctx context.Context, creds forwarder.Credentials, baseURL string) (catalog.RelayResult, error)
	RelayCatalog(ctx context.Context, op forwarder.CatalogOp, req forwarder.CatalogRequest, baseURL string) (catalog.RelayResult, error)
	Publish(ctx context.Context, req forwarder.PublishRequest, baseURL string) (catalog.RelayResult, error)
}

type credentialsForwardFunc func(ctx context.Context, creds forwarder.Credentials, baseURL string) (catalog.RelayResult, error)

// GatewayHandler serves the cover, account and catalog routes
type GatewayHandler struct {
	forwarder Forwarder
	resolver  *hostresolver.Resolver
	logger    *zap.Logger
}

// NewGatewayHandler creates the gateway route handlers
func NewGatewayHandler(fwd Forwarder, resolver *hostresolver.Resolver, logger *zap.Logger) *GatewayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GatewayHandler{
		forwarder: fwd,
		resolver:  resolver,
		logger:    logger,
	}
}

// resolveBackend turns an optional per-request target into a base URL
func (h *GatewayHandler) resolveBackend(target backendtypes.BackendTarget) (string, error) {
	addr, err := h.resolver.FromFields(target.BackendIP, target.BackendHost, string(target.BackendPort))
	if err != nil {
		return "", fmt.Errorf("backend target: %w", err)
	}
	return addr.BaseURL(), nil
}
