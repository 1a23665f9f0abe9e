/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrRoomCodeExists:   {Code: ErrRoomCodeExists, Message: "Room code already exists."},
	ErrRoomNotFound:     {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrRoomIsFull:       {Code: ErrRoomIsFull, Message: "This room is full."},
	ErrNicknameInvalid:  {Code: ErrNicknameInvalid, Message: "Nickname must be 1 to %d characters."},
	ErrTeamInvalid:      {Code: ErrTeamInvalid, Message: "Team must be between 0 and %d, or -1 for no team."},
	ErrSquareOutOfRange: {Code: ErrSquareOutOfRange, Message: "Square is not on the board."},
	ErrSquareTaken:      {Code: ErrSquareTaken, Message: "Square is already claimed."},
	ErrSquareNotOwned:   {Code: ErrSquareNotOwned, Message: "Your team does not own this square."},
	ErrNoTeam:           {Code: ErrNoTeam, Message: "Join a team to mark squares."},
	ErrBoardInvalid:     {Code: ErrBoardInvalid, Message: "A board needs no goals or exactly %d goals."},

	ErrPowChallengeRequired: {Code: ErrPowChallengeRequired, Message: "Verification required. Please try again.", Status: http.StatusForbidden},
	ErrPowChallengeInvalid:  {Code: ErrPowChallengeInvalid, Message: "Verification failed. Please try again.", Status: http.StatusForbidden},
	ErrSessionKicked:        {Code: ErrSessionKicked, Message: "You joined this room from another window."},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Please join the room to continue.", Status: http.StatusUnauthorized},

	ErrUnknown:       {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrArchiveFailed: {Code: ErrArchiveFailed, Message: "The previous match could not be archived.", Status: http.StatusInternalServerError},
}
