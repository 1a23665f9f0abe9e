/*
Package errs provides custom error types and application-level error code constants.

These error codes identify request, room and session failures both inside the server
and in messages sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Room and Board Errors
const (
	// ErrRoomCodeExists indicates that the generated room code is already taken.
	ErrRoomCodeExists = 2102

	// ErrRoomNotFound indicates that no room exists for the given code.
	ErrRoomNotFound = 2103

	// ErrRoomIsFull indicates that the room has reached its maximum number of participants.
	ErrRoomIsFull = 2104

	// ErrNicknameInvalid indicates an empty or overly long nickname.
	ErrNicknameInvalid = 2105

	// ErrTeamInvalid indicates a team number outside the configured range.
	ErrTeamInvalid = 2106

	// ErrSquareOutOfRange indicates a square position that is not on the board.
	ErrSquareOutOfRange = 2201

	// ErrSquareTaken indicates that the square is already owned by a team.
	ErrSquareTaken = 2202

	// ErrSquareNotOwned indicates an unclaim of a square the team does not own.
	ErrSquareNotOwned = 2203

	// ErrNoTeam indicates a board action by a participant without a team.
	ErrNoTeam = 2204

	// ErrBoardInvalid indicates a new match request with an unusable goal list.
	ErrBoardInvalid = 2205
)

// 3xxx: Session and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the PoW proof provided by the client is invalid.
	ErrPowChallengeInvalid = 3002

	// ErrSessionKicked indicates that the connection was replaced by a newer one for the same user.
	ErrSessionKicked = 3004

	// ErrUnauthorized indicates a missing, invalid or expired room token.
	ErrUnauthorized = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrArchiveFailed indicates that the finished match could not be archived.
	ErrArchiveFailed = 5001
)
