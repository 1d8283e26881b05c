// Package handlers provides the gateway's HTTP handlers: cover generation,
// account and catalog relays, the publish flow, and health endpoints.
//
// Gateway routes answer in the shapes their web client expects
// ({"imageUrl"}, {"error"}, {"message"} or the upstream body). The
// gateway's own endpoints use the APIResponse envelope.
package handlers
