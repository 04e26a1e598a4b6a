// Package restkit provides a generic client for REST-style HTTP APIs.
//
// # Overview
//
// The package is built from three pieces: a Client (the API connection,
// holding the base URL and a registry of named resources), a RequestHandler
// (the transport issuing the HTTP calls, with HTTPRequestHandler as the
// default), and a Resource (CRUD-style verbs for one collection endpoint,
// with RESTResource as the default). Each piece is an interface with a
// concrete default, so a custom transport or resource handler can be swapped
// in through Config.RequestHandler or AddResource's WithHandler option.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/restkit/pkg/restkit"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  client, err := restkit.New(&restkit.Config{BaseURL: "https://api.example.com/v1"})
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := client.AddResource("users")
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := users.Get(ctx, "42", nil)
//	  if err != nil { log.Fatal(err) }
//
//	  user, err := resp.Map()
//	  if err != nil { log.Fatal(err) }
//	  _ = user
//	}
//
// # Errors
//
// Non-2xx responses surface as a *RequestError carrying the status line,
// headers, and raw content; the *Response is returned alongside the error.
// Resource verbs wrap transport failures with the resource name and id while
// errors.As still reaches the underlying *RequestError. Helpers such as
// IsNotFound and IsUnauthorized classify errors by status code.
//
// # Concurrency
//
// Calls are synchronous and blocking, one network exchange per verb.
// Configured clients may issue requests from multiple goroutines, but
// resource registration and credential changes are not synchronized.
//
// For APIs following Django TastyPie conventions (resource discovery, schema
// endpoints, ApiKey authorization), see the tastypie package, which builds
// on this one.
package restkit
