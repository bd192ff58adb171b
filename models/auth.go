package models

// AuthData is the dashboard credential document.
type AuthData struct {
	DashboardPasswordHash string `json:"dashboardPasswordHash,omitempty"`
	OwnerID               string `json:"ownerId"`
}

// HasPassword reports whether a dashboard password was ever configured.
func (a AuthData) HasPassword() bool {
	return a.DashboardPasswordHash != ""
}
