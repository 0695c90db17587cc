// Package runner provides the request loop engine of orderbench.
//
// The engine issues calls to one order operation strictly one after another:
//   - [Bounded] limits stop after exactly n calls; [Unbounded] runs until the
//     context is cancelled
//   - an optional pause separates consecutive calls
//   - an optional rate cap (calls per second) paces the loop
//   - every call is classified as success (HTTP 200) or failure and counted
//   - a snapshot is handed to the [Reporter] every 100 calls
//
// # Basic Usage
//
//	engine := runner.New(runner.Options{
//		Limit:     runner.LimitFromTimes(1000),
//		Interval:  100 * time.Millisecond,
//		Requester: myRequester,
//		Reporter:  reporter,
//	})
//	result := engine.Run(ctx)
//
// # Requester Interface
//
// The [Requester] interface defines what the engine executes:
//
//	type Requester interface {
//		Do(ctx context.Context) error
//	}
//
// # Error Handling
//
// Requesters report non-200 responses as [*StatusError] and I/O failures as
// [*TransportError]. Neither stops the loop and neither is retried; both
// count as failures. Refused connections are logged separately.
package runner
