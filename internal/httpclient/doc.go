// Package httpclient turns order requests into HTTP requests against the
// benchmark target and provides the HTTP client used for every call.
//
// # Request Building
//
// A [RequestBuilder] pairs the target host with a [RequestSource] (normally
// an order descriptor) and stamps every request with the gateway source
// header:
//
//	builder, err := httpclient.NewRequestBuilderWithAuth(host, descriptor, credential)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// The auth provider injects the session cookie obtained at login. When
// tracing propagation is enabled, W3C trace headers are added as well.
//
// # HTTP Client
//
// [NewClient] creates a client whose timeout bounds each call, so a hung
// server cannot stall the benchmark loop indefinitely:
//
//	client := httpclient.NewClient(30 * time.Second)
//	resp, err := client.Do(req)
package httpclient
