package auth

import (
	"encoding/json"
	"fmt"

	"github.com/sauerbraten/frontline/internal/definitions/privilege"
)

type User struct {
	Name         string       `json:"name"`
	PasswordHash string       `json:"password_hash"` // bcrypt
	Privilege    privilege.ID `json:"-"`
}

func (u *User) MarshalJSON() ([]byte, error) {
	proxy := struct {
		Name         string `json:"name"`
		PasswordHash string `json:"password_hash"`
		Privilege    string `json:"privilege"`
	}{
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Privilege:    u.Privilege.String(),
	}
	return json.Marshal(proxy)
}

func (u *User) UnmarshalJSON(data []byte) error {
	proxy := &struct {
		Name         string `json:"name"`
		PasswordHash string `json:"password_hash"`
		Privilege    string `json:"privilege"`
	}{}
	err := json.Unmarshal(data, proxy)
	if err != nil {
		return err
	}
	u.Name = proxy.Name
	u.PasswordHash = proxy.PasswordHash
	u.Privilege = privilege.Parse(proxy.Privilege)
	if u.Privilege == -1 {
		return fmt.Errorf("invalid value for 'privilege'")
	}
	return nil
}
