// Package httpclient sends typed HTTP requests and maps every failure into a
// closed error taxonomy.
//
// A call is described by a Template: a declarative Request (method, path,
// query, headers, body, auth requirement) plus a decoder for the success
// body. The Client builds the wire request, dispatches it through a
// Transport, validates the status and decodes the body.
//
//	c, err := httpclient.New(httpclient.Config{
//	    BaseURL:   "https://api.example.com",
//	    UserAgent: version.UserAgent(),
//	})
//
//	team, err := httpclient.Send[Team](ctx, c,
//	    httpclient.NewEndpoint[Team](httpclient.MethodGet,
//	        httpclient.NewPath("teams", "16").String()))
//
// # Errors
//
// Every error returned by Build, Send, SendResponse and Run implements
// Error. Codes 1001-1999 are raised before anything is sent, codes
// 2001-2999 after a send was attempted, and -1 marks an untyped failure.
// Predicates such as IsRetriable, IsNetworkIssue and IsUnauthorized inspect
// the classification.
//
// # Composition
//
// Multi-step operations implement Composed and run through Run, which
// returns step failures unchanged and wraps anything else as UntypedError.
//
// # Authentication
//
// Requests declaring AuthBearer receive "Authorization: Bearer <token>" from
// Config.Authentication. See package auth for a refreshing provider.
package httpclient
