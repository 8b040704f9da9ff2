// Copyright (c) 2026 Minbar. All rights reserved.

// Package schema names the tables and columns of the Minbar database.
//
// Repositories build their column lists from these definitions so a renamed column
// only has to change here and in data/migrations.
package schema

// UserAccountTable represents the 'users.account' table.
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Password    string
	DisplayName string
	Bio         string
	AvatarURL   string
	Role        string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account.
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Password:    "passwordhash",
	DisplayName: "displayname",
	Bio:         "bio",
	AvatarURL:   "avatarurl",
	Role:        "role",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns the columns read by account queries, in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.DisplayName, t.Bio,
		t.AvatarURL, t.Role, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
