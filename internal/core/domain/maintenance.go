package domain

import "time"

// Maintenance holds the external maintenance toggles. A value above zero
// means the service is under maintenance.
type Maintenance struct {
	Game      int       `json:"game"`
	Lodestone int       `json:"lodestone"`
	Companion int       `json:"companion"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m Maintenance) IsGame() bool      { return m.Game > 0 }
func (m Maintenance) IsLodestone() bool { return m.Lodestone > 0 }
func (m Maintenance) IsCompanion() bool { return m.Companion > 0 }

func (m Maintenance) Any() bool {
	return m.IsGame() || m.IsLodestone() || m.IsCompanion()
}
