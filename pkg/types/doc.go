// Package types holds the error taxonomy shared by the gateway packages.
//
// Three error kinds cross package boundaries:
//
//   - ValidationError: caller input rejected locally (bad host, port, body). HTTP 400.
//   - UpstreamError: the image API or catalog backend answered with a failure.
//     The upstream status and message pass through.
//   - MissingDataError: an upstream answered 2xx without a required field. HTTP 500.
//
// Handlers classify errors with HTTPStatus and errors.As; anything else is a 500.
package types
