package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Role string

const (
	RoleAthlete Role = "athlete"
	RoleScout   Role = "scout"
	RoleFan     Role = "fan"
)

// Valid reports whether r is one of the registrable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAthlete, RoleScout, RoleFan:
		return true
	}
	return false
}

// StringList stores an ordered list of strings as a JSON text column so the
// same model works on both postgres and the sqlite test database.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported column type for StringList")
}

// MarshalJSON keeps empty lists as [] in responses instead of null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

type User struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username        string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Role            Role       `gorm:"type:varchar(20);not null" json:"role"`
	FullName        string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Bio             string     `gorm:"type:text" json:"bio"`
	ProfileImage    string     `gorm:"type:text" json:"profile_image"`
	SportsInterests StringList `gorm:"type:text" json:"sports_interests"`
	Achievements    StringList `gorm:"type:text" json:"achievements"`
	CreatedAt       time.Time  `json:"created_at"`
}
