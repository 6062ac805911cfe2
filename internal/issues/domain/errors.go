package domain

import "errors"

var (
	ErrRequiredFieldsMissing = errors.New("required field(s) missing")
	ErrMissingID             = errors.New("missing _id")
	ErrNoUpdateFields        = errors.New("no update field(s) sent")
	ErrIssueNotFound         = errors.New("issue not found")
	ErrInvalidBody           = errors.New("invalid request body")
)

// Response messages returned to clients.
const (
	MsgCouldNotUpdate      = "could not update"
	MsgCouldNotDelete      = "could not delete"
	MsgSuccessfullyUpdated = "successfully updated"
	MsgSuccessfullyDeleted = "successfully deleted"
)

// Result is the payload of update and delete responses.
type Result struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	ID     string `json:"_id,omitempty"`
}
