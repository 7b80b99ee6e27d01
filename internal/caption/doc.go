// Package caption provides the HTTP client for the remote captioning service.
//
// The service contract is a single exchange:
//
//	POST {base}/process-image
//	Content-Type: multipart/form-data (one part: field "file", filename "photo.jpg", image/jpeg)
//
//	200 OK
//	{"caption": "a red apple"}
//
// Any other status, an unreadable body, or a transport failure is reported as
// an error matching ErrUpload. Callers show one generic message for all of
// them and log the wrapped cause. The client never retries.
package caption
