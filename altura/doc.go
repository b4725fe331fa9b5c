// Package altura provides a client for the Altura NFT platform API.
//
// Every endpoint is exposed as an operation that issues one HTTP call per
// Run, decodes the JSON response into a typed model and notifies callbacks
// and events. Operations are single-flight: a Run issued while another is in
// flight is rejected, never queued.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := altura.NewClient(altura.NewCredentials(apiKey, ""), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	op := client.NewGetCollection(false).
//		SetParameters("0x8b4d...").
//		OnComplete(func(c *altura.Collection) { fmt.Println(c.Name) }).
//		OnError(func(reason string) { fmt.Println(reason) })
//	op.Run(ctx)
//	<-op.Done()
//
// # Lifecycle
//
// A run moves through Idle, Dispatching, InFlight, Completed and Disposed.
// Completion happens exactly once, whether it comes from the response or from
// the watchdog, and disposal releases the transport call and the guard on
// every path. Listeners fire in order: the success callback then AfterSuccess,
// or the error callback then AfterError.
//
// Only UserSettings arms a watchdog (DefaultUserSettingsWatchdog), and its
// guard is shared by the whole process. GetCollection and TransferItems guard
// each instance separately and wait as long as the transport does.
//
// The guard is only released on disposal, after every listener returned, so
// a Run chained from inside a callback is rejected. Chain from Done instead.
//
// # Error Handling
//
// Error callbacks receive Failure.Reason. Transport failures use the form
//
//	Response code: {code}. Result {body}
//
// while decode, timeout and rejected runs report "decode_error", "timeout"
// and "concurrency_rejected". The *Failure held by an Outcome matches
// ErrTransport, ErrDecode, ErrTimeout, ErrRejected or ErrInvalidRequest with
// errors.Is.
package altura
