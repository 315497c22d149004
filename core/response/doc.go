// Package response builds handler.Response values and renders errors.
//
//	func home(ctx handler.Context) handler.Response {
//		return response.String("hello")
//	}
//
// Errors returned from a Response go to the error handler configured on the
// adapter. ErrorHandler renders plain text and JSONErrorHandler renders the
// HTTPError as JSON. Errors that implement StatusCode() int anywhere in their
// chain map to the matching catalogue entry; anything else becomes a 500.
package response
