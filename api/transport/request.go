package transport

// CreateTaskRequest is the JSON body for task creation. A nil Priority asks
// the engine to estimate one from the text and deadline.
type CreateTaskRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         *int     `json:"priority"`
	Deadline         string   `json:"deadline"`
	Dependencies     []string `json:"deps"`
	Tags             []string `json:"tags"`
	EstimatedMinutes *int     `json:"minutes"`
	UseAssist        bool     `json:"assist"`
}

// UpdateTaskRequest carries a partial update; absent fields stay untouched.
// Fields outside this set are silently dropped during decoding.
type UpdateTaskRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Priority         *int      `json:"priority"`
	Deadline         *string   `json:"deadline"`
	Progress         *int      `json:"progress"`
	Tags             *[]string `json:"tags"`
	Dependencies     *[]string `json:"deps"`
	EstimatedMinutes *int      `json:"minutes"`
}

// ProgressRequest sets a task's progress percentage.
type ProgressRequest struct {
	Progress int `json:"progress"`
}
