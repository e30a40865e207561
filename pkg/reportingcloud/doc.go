// Package reportingcloud is a typed client for the ReportingCloud document
// generation service.
//
// Every method validates its arguments before any network traffic, translates
// structured options to the wire shape, sends exactly one request and
// classifies the outcome. Failures are always one of the apierr types:
//
//	ok, err := client.DeleteTemplate(ctx, "invoice.tx")
//	switch {
//	case errors.Is(err, apierr.ErrInvalidArgument):
//	case errors.Is(err, apierr.ErrRuntime):
//	}
//
// A Client is immutable after New and safe for concurrent use.
package reportingcloud
