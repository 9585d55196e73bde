package transport

// SignupRequest and LoginRequest share the same wire shape on purpose.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ParseTaskRequest carries free-form text for the ingestion pipeline.
type ParseTaskRequest struct {
	Text string `json:"text"`
}

// TaskCreateRequest is a direct task creation bypassing extraction.
type TaskCreateRequest struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
}

// TaskUpdateRequest is a partial update; absent fields keep their values.
type TaskUpdateRequest struct {
	Title    *string `json:"title"`
	Assignee *string `json:"assignee"`
	DueDate  *string `json:"due_date"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
}
