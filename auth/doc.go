// Package auth supplies bearer tokens to httpclient and refreshes them.
//
// TokenProvider implements httpclient.AuthenticationProvider. It caches the
// current Token, judges staleness from ExpiresAt or the JWT "exp" claim, and
// allows at most one refresh in flight: concurrent callers that find the
// token stale share the outcome of a single Refresher call.
//
//	provider := auth.NewTokenProvider(
//	    auth.OAuth2Refresher(&oauth2.Config{ClientID: "cli", Endpoint: endpoint}),
//	    auth.WithStore(auth.NewKeyringStore(ring, "default")),
//	)
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.example.com",
//	    Authentication: provider,
//	})
//
// Tokens persist through a TokenStore: MemoryStore, KeyringStore (OS
// keychain or encrypted file) or RedisStore (shared between processes).
package auth
