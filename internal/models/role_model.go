package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex" json:"name"`
	DisplayName string         `gorm:"size:150" json:"display_name"`
	Permissions datatypes.JSON `json:"permissions"`
	Active      bool           `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// PermissionKeys decodes the stored JSON array of permission keys.
func (r *Role) PermissionKeys() []string {
	var keys []string
	if len(r.Permissions) > 0 {
		_ = json.Unmarshal(r.Permissions, &keys)
	}
	return keys
}

func (r *Role) SetPermissionKeys(keys []string) error {
	raw, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	r.Permissions = datatypes.JSON(raw)
	return nil
}

// UserRoleAssignment links a user to a role. Assignments survive role
// deactivation; an inactive role simply contributes no permissions.
type UserRoleAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_user_role,unique" json:"user_id"`
	RoleID     uint      `gorm:"index:idx_user_role,unique" json:"role_id"`
	Role       *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	AssignedBy uint      `json:"assigned_by"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}
