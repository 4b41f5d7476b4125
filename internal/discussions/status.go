package discussions

type Status string

const (
	StatusAwaitingAdmin  Status = "réponse_client"
	StatusAwaitingClient Status = "réponse_admin"
	StatusFinalized      Status = "finalisé"
	StatusCancelled      Status = "annulé"
)

// IsValid checks if the discussion status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusAwaitingAdmin, StatusAwaitingClient, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanRespond: the admin answers once per client turn.
func (s Status) CanRespond() bool {
	return s == StatusAwaitingAdmin
}

// CanFinalize: the client decides only after an admin counter-offer.
func (s Status) CanFinalize() bool {
	return s == StatusAwaitingClient
}

func (s Status) IsTerminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// Action is the client's decision on a counter-offer.
type Action string

const (
	ActionAccept Action = "valider"
	ActionRefuse Action = "annuler"
)

func (a Action) IsValid() bool {
	return a == ActionAccept || a == ActionRefuse
}

// Target returns the status a discussion reaches with this action.
func (a Action) Target() Status {
	if a == ActionAccept {
		return StatusFinalized
	}
	return StatusCancelled
}
