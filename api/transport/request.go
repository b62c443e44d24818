package transport

// LoginRequest carries the credential pair for sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ActivityPayload mirrors one checklist item in the task document.
type ActivityPayload struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskRequest is the create/update payload. For updates, nil pointer
// fields are left untouched.
type TaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Priority    *string            `json:"priority"`
	Status      *string            `json:"status"`
	Activities  *[]ActivityPayload `json:"activities"`
}
