package models

// TenantConfig maps an authenticated user to the namespace holding their business data.
type TenantConfig struct {
	UserID         string `json:"user_id" db:"user_id"`
	CustomerFolder string `json:"customer_folder" db:"customer_folder"`
	UpdatedAt      string `json:"updated_at,omitempty" db:"updated_at"`
}

// Principal is the authenticated identity behind a request.
type Principal struct {
	UserID string
	Email  string
	// Admin is set for members of the operator group; they may attach users to folders
	// that already hold data.
	Admin bool
}

type BackupReceipt struct {
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at"`
}
