package model

import "strconv"

// Group is a VK community as returned by groups.getById and groups.search.
type Group struct {
	Name         string   `json:"name"`
	ScreenName   string   `json:"screen_name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Activity     string   `json:"activity,omitempty"`
	Type         string   `json:"type,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	ID           int64    `json:"id"`
	MembersCount int      `json:"members_count"`
	IsClosed     int      `json:"is_closed"`
	Similarity   float64  `json:"similarity_score,omitempty"`
}

// IsOpen reports whether the member list is publicly readable.
func (g *Group) IsOpen() bool {
	return g.IsClosed == 0
}

// IDString returns the numeric id as used by storage and cache keys.
func (g *Group) IDString() string {
	return strconv.FormatInt(g.ID, 10)
}

// Link returns the canonical vk.com address of the group.
func (g *Group) Link() string {
	if g.ScreenName != "" {
		return "vk.com/" + g.ScreenName
	}
	return "vk.com/club" + g.IDString()
}
