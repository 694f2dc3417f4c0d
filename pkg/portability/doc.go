// Package portability turns OpenAPI operations and prepared requests into
// artifacts other tools run: Postman v2.1 collections and cURL commands.
//
// # Postman
//
//	coll, err := portability.GeneratePostmanCollection(doc, portability.PostmanOptions{GroupByTag: true})
//	data, _ := json.MarshalIndent(coll, "", "  ")
//
// Every request carries the configured base headers, bearer auth bound to a
// collection variable and a pre-request script that refreshes the token.
//
// # cURL
//
//	m := request.Build(doc, op, xmlText, request.Options{})
//	cmd, err := portability.BuildCURL(m, portability.CURLOptions{Pruned: true})
//
// ParseCURL reads such a command back into its method, URL, headers and body.
package portability
