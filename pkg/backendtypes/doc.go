// Package backendtypes defines the gateway's configuration and its HTTP
// request and response bodies.
//
// It is kept apart from the server implementation so the CLI and tests can
// build configs without importing the backend package.
//
// # Configuration
//
// BackendConfig is read from yaml by LoadConfig and then overridden from
// the environment:
//
//   - BACKEND_BASE_URL, BACKEND_URL, NEXT_PUBLIC_BACKEND_URL: default
//     catalog backend, first non-empty wins
//   - PORT: listen port
//   - OPENAI_IMAGES_URL: image generation endpoint
//
// # Request Types
//
// Every route body may carry a BackendTarget (backendIp, backendHost,
// backendPort) pointing the request at a different catalog backend.
package backendtypes
