package model

// Party is the subject of a grant: a user or a team
type Party struct {
	PartyID int64 `gorm:"column:party_id;primaryKey;autoIncrement"`
}

func (Party) TableName() string {
	return "core_party"
}

// User is a party representing one person
type User struct {
	PartyID int64  `gorm:"column:party_id;primaryKey"`
	Login   string `gorm:"column:login;not null;unique"`
}

func (User) TableName() string {
	return "core_user"
}

// Team is a party aggregating member users
type Team struct {
	PartyID int64  `gorm:"column:party_id;primaryKey"`
	Name    string `gorm:"column:name;not null"`
}

func (Team) TableName() string {
	return "core_team"
}

// TeamMember links a user into a team
type TeamMember struct {
	TeamID int64 `gorm:"column:team_id;primaryKey"`
	UserID int64 `gorm:"column:user_id;primaryKey"`
}

func (TeamMember) TableName() string {
	return "core_team_member"
}

// PartyAuthority is a denormalized authority attached to a party. The
// derived project-manager authority is recomputed from grants, never
// written by callers.
type PartyAuthority struct {
	PartyID   int64  `gorm:"column:party_id;primaryKey"`
	Authority string `gorm:"column:authority;primaryKey"`
}

func (PartyAuthority) TableName() string {
	return "core_party_authority"
}
