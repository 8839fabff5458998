package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPatchRequest carries the fields changed in the roster edit buffer.
type UserPatchRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Nickname *string `json:"nickname"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type BulkRoleRequest struct {
	IDs  []string `json:"ids"`
	Role string   `json:"role"`
}

type BugRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
}

type FeatureRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type RoadmapItemRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Quarter          string  `json:"quarter"`
	Status           string  `json:"status"`
	FeatureRequestID *string `json:"feature_request_id"`
	Position         int     `json:"position"`
}

type PromoteRequest struct {
	Quarter string `json:"quarter"`
}

type MentionRequest struct {
	RecipientID      string  `json:"recipient_id"`
	BugID            *string `json:"bug_id"`
	FeatureRequestID *string `json:"feature_request_id"`
	Body             string  `json:"body"`
}

// MarkReadRequest marks the listed mentions read; an empty list marks all.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}
