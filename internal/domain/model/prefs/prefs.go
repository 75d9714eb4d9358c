package prefs

import "time"

// PanelPrefs is what a panel session remembers between reloads: the
// selected folder and the backend it reads mocks from.
type PanelPrefs struct {
	SessionID      string `gorm:"primaryKey;type:varchar(64)" json:"sessionId" redis:"session_id"`
	SelectedFolder string `gorm:"type:varchar(255)" json:"selectedFolder" redis:"selected_folder"`
	BackendURL     string `gorm:"type:varchar(512)" json:"backendUrl" redis:"backend_url"`
	Version        int    `gorm:"not null" json:"version" redis:"version"`
	UpdatedAt      int64  `gorm:"autoUpdateTime" json:"updatedAt" redis:"updated_at"`
}

func (PanelPrefs) TableName() string {
	return "panel_prefs"
}

// Touch bumps the version and update time before a save.
func (p *PanelPrefs) Touch(now time.Time) {
	p.Version++
	p.UpdatedAt = now.Unix()
}
