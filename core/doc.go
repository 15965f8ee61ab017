// Package core contains the business logic for the arXiv search API.
// It does not depend on the HTTP framework; everything external is injected
// through interfaces.
//
// The core package is organized into several sub-packages:
//
// - domain: Article, search parameters, protocol frames and endpoint metadata
// - query: Extracts a search query from free-form generate input
// - format: Renders articles as numbered text blocks
// - arxiv: Calls the arXiv export API, parses the Atom feed and caches results
// - dispatch: Drives one generate request through its frame sequence
// - errors: Typed errors mapped to HTTP status codes by the api layer
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache, may be nil
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	service := arxiv.NewService(deps, arxiv.Options{MaxResultsCeiling: 100})
//	dispatcher := dispatch.New(service, myLogger, dispatch.Options{PageSize: 5})
//
//	input := "search for quantum error correction"
//	frame, err := dispatcher.Generate(ctx, &input)
package core
