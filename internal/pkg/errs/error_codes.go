/*
Package errs provides the application error type and its business error codes.

Codes are grouped by range so clients can branch on them without parsing messages.
*/
package errs

// 1xxx: request handling
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates a Content-Type other than JSON.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates the body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates the caller exceeded its request budget.
	ErrRateLimitExceeded = 1007
)

// 2xxx: messaging and files
const (
	// ErrFileNotFound indicates that no blob exists under the requested name.
	ErrFileNotFound = 2301

	// ErrTranslateFailed indicates the translation backend could not serve the request.
	ErrTranslateFailed = 2401
)

// 3xxx: identity and security
const (
	ErrPowChallengeRequired = 3001
	ErrPowChallengeInvalid  = 3002

	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = 3101

	ErrInvalidUsername    = 3201
	ErrInvalidPassword    = 3202
	ErrUserAlreadyExists  = 3203
	ErrUserNotFound       = 3204
	ErrInvalidCredentials = 3205
)

// 5xxx: internal
const (
	// ErrUnknown is an unclassified server failure.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates the blob store rejected a read or write.
	ErrFileStorageFailed = 5001
)
