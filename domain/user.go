package domain

// User is the signed-in person, decoded from the issued token.
type User struct {
	ID          string     `json:"id"`
	LoginName   string     `json:"loginName"`
	DisplayName string     `json:"displayName"`
	SchoolID    string     `json:"schoolId"`
	SchoolCode  string     `json:"schoolCode"`
	Type        EntityType `json:"type"`
	Roles       []string   `json:"roles"`
}
