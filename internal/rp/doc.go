// Package rp provides a scope-based client for the Report Portal 5.11 API,
// plus a Fetcher that assembles analytics inputs from it.
//
// Usage:
//
//	client, err := rp.New(baseURL, token, rp.WithTimeout(30*time.Second))
//	launches, err := client.Project("ecosystem-qe").Launches().List(ctx, rp.WithAttributes("component:acm"))
//	items, err := client.Project("ecosystem-qe").Items().ListAll(ctx, rp.WithLaunchID(33195))
package rp
