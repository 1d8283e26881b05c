// Package backend hosts the book-cover gateway HTTP server.
//
// The server builds one client per upstream (the image generation API and
// the catalog backend), wires them into a forwarder and exposes the
// gateway routes through a chi router:
//
//	POST   /api/cover-generator   generate a cover and save it to the catalog
//	POST   /api/signup            relay account creation
//	POST   /api/login             relay login
//	GET    /api/books             list books
//	POST   /api/books             create a book
//	PUT    /api/books             update a book
//	DELETE /api/books             delete a book
//	POST   /api/books/check       fetch one book
//	POST   /api/books/publish     create or update a book together with its cover
//	PUT    /api/image             update a cover
//	POST   /api/image/check       fetch a cover
//
// Health, status, version and upstream metrics are served alongside.
//
// # Middleware
//
// Every request passes Recovery, Logging, RequestID, CORS and Auth in that
// order. Cover generation is additionally rate limited per client IP.
//
// # Example
//
//	cfg, err := backendtypes.LoadConfig("config.yaml")
//	if err != nil {
//	    return err
//	}
//	server, err := backend.NewServer(*cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return server.ListenAndServeWithGracefulShutdown(stop)
package backend
