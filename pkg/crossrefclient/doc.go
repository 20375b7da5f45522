// Package crossrefclient constructs ready-to-use Crossref API clients.
//
// The package wires configuration, transport, response caching, and
// rate-limit pacing into an implementation of crossref.Client:
//
//	cli, err := crossrefclient.New(&crossref.Config{
//	  Mailto: "ops@example.com",
//	  Cache:  crossref.NewMemoryCache(1000),
//	})
//
// See the crossref package for the client interfaces and domain types.
package crossrefclient
