package tickets

import "errors"

var (
	// ErrNoTicket is returned when the channel has no active ticket.
	ErrNoTicket = errors.New("no active ticket for channel")

	// ErrUnknownCategory is returned when a ticket is created for a category
	// that is not configured.
	ErrUnknownCategory = errors.New("unknown ticket category")

	// ErrAlreadyJoined is returned when a helper already occupies a slot.
	ErrAlreadyJoined = errors.New("already helping this ticket")

	// ErrSelfJoin is returned when the requestor tries to join their own
	// ticket.
	ErrSelfJoin = errors.New("cannot join your own ticket")

	// ErrSlotsFull is returned when every helper slot is occupied.
	ErrSlotsFull = errors.New("all helper slots are full")

	// ErrNotRequestor is returned when someone other than the requestor
	// submits proof.
	ErrNotRequestor = errors.New("only the requestor can submit proof")

	// ErrProofAlreadySubmitted is returned on a second proof submission.
	ErrProofAlreadySubmitted = errors.New("proof already submitted")

	// ErrProofRequired is returned when the requestor closes before
	// submitting proof.
	ErrProofRequired = errors.New("proof must be submitted before closing")

	// ErrNotAuthorized is returned when the actor may not perform the
	// operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotAHelper is returned when kicking a user that occupies no slot.
	ErrNotAHelper = errors.New("user is not a helper on this ticket")
)
