package entity

// Session is the currently connected wallet. At most one exists at a time.
// The JSON field names match the snapshot stored under the connectedWallet key.
type Session struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Clone returns a copy that callers may keep without sharing the controller's value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
