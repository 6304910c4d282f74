// Package graphql exposes the user and login operations over GraphQL.
//
// The schema has a login mutation and the hello, me and users queries. me and
// users need a verified identity, which Handler derives from the request's
// Authorization header using the same auth gate as the REST routes. Requests
// without a valid token run anonymously instead of being rejected.
package graphql
