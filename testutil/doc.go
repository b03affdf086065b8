// Package testutil provides test doubles for code built on httpclient.
//
// StubTransport is an in-memory httpclient.Transport that answers requests
// from a table of stubs keyed by URL:
//
//	stubs := testutil.NewStubTransport()
//	stubs.RegisterJSON(t, "https://api.example.com/events/123", 200, event)
//	client, _ := httpclient.New(cfg, httpclient.WithTransport(stubs))
//
// StubTransport is also a TestComponent, so its table can be reset,
// snapshotted and restored between cases:
//
//	testutil.T(t).Setup(stubs)
package testutil
