// Package crossref provides types, interfaces, and helpers for working with
// the Crossref REST API (https://api.crossref.org).
//
// # Overview
//
// The crossref package defines the domain types (Work, Member, Funder,
// Journal, Prefix, WorkType, License) and the interfaces for resource-
// oriented clients (WorksClient, MembersClient, and so on). A concrete
// implementation is provided by the crossrefclient package, which wires
// configuration, transport, caching, and rate limiting. Most consumers
// should import crossrefclient to construct a client and then interact with
// the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/edent/crossref-client/pkg/crossref"
//	  "github.com/edent/crossref-client/pkg/crossrefclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := crossrefclient.New(&crossref.Config{Mailto: "ops@example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  work, err := cli.Works().Get(ctx, "10.1037/0003-066X.59.1.29")
//	  if err != nil { log.Fatal(err) }
//	  _ = work
//	}
//
// # Queries
//
// Use QueryParams to express list options (free-text query, rows, offset,
// sort, cursor) and the API's filter/facet encoding:
//
//	params := crossref.NewQueryParams().
//	  WithFilter("type", "journal-article").
//	  WithFilter("from-pub-date", "2020-01-01").
//	  WithFacet("license", "*").
//	  WithRows(100)
//	works, err := cli.Works().List(ctx, params)
//
// Untyped access is available through Request, which returns the decoded
// JSON body as a generic value tree, and Exists, which probes a path with a
// HEAD request.
//
// # Caching and rate limiting
//
// An optional Cache (memory, Redis, or NATS KV) stores GET responses and
// shares observed rate-limit state between processes. The client paces
// outbound requests to the quota window advertised by the API's
// X-Rate-Limit-Limit and X-Rate-Limit-Interval response headers; cache
// failures degrade silently and never fail a request.
//
// # Errors
//
// Non-2xx responses surface as *APIError carrying the status and body;
// bodies that fail to parse surface as *DecodeError. Helpers IsNotFound and
// IsRateLimited branch on common cases.
package crossref
