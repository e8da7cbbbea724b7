package transition_reservation

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Action string `json:"action"` // accept | reject | complete | cancel
}

// InvalidTransitionResponse тело 409 с текущим статусом записи
type InvalidTransitionResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	CurrentStatus string `json:"currentStatus"`
}
