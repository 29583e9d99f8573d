package permission

import "fmt"

// Permission is one grantable capability. The registry is fixed at compile
// time and read-only at runtime; roles reference permissions by Key.
type Permission struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Module string `json:"module"`
}

var registry = []Permission{
	{Key: "users.read", Label: "View users", Module: "users"},
	{Key: "users.create", Label: "Create users", Module: "users"},
	{Key: "users.update", Label: "Edit users", Module: "users"},
	{Key: "users.delete", Label: "Delete users", Module: "users"},

	{Key: "roles.read", Label: "View roles", Module: "roles"},
	{Key: "roles.create", Label: "Create roles", Module: "roles"},
	{Key: "roles.update", Label: "Edit roles", Module: "roles"},
	{Key: "roles.delete", Label: "Deactivate roles", Module: "roles"},

	{Key: "content.read", Label: "View content", Module: "content"},
	{Key: "content.create", Label: "Create content", Module: "content"},
	{Key: "content.update", Label: "Edit content", Module: "content"},
	{Key: "content.delete", Label: "Archive content", Module: "content"},
	{Key: "content.publish", Label: "Approve and publish content", Module: "content"},
	{Key: "content.read.deleted", Label: "View archived and deleted content", Module: "content"},

	{Key: "properties.read", Label: "View properties", Module: "properties"},
	{Key: "properties.create", Label: "Create properties", Module: "properties"},
	{Key: "properties.update", Label: "Edit properties", Module: "properties"},
	{Key: "properties.delete", Label: "Delete properties", Module: "properties"},

	{Key: "leads.read", Label: "View leads", Module: "leads"},
	{Key: "leads.create", Label: "Create leads", Module: "leads"},
	{Key: "leads.update", Label: "Edit leads", Module: "leads"},
	{Key: "leads.delete", Label: "Delete leads", Module: "leads"},

	{Key: "media.read", Label: "View media", Module: "media"},
	{Key: "media.create", Label: "Upload media", Module: "media"},
	{Key: "media.delete", Label: "Delete media", Module: "media"},

	{Key: "apikeys.read", Label: "View API keys and usage", Module: "apikeys"},
	{Key: "apikeys.create", Label: "Create API keys", Module: "apikeys"},
	{Key: "apikeys.delete", Label: "Revoke API keys", Module: "apikeys"},

	{Key: "audit.read", Label: "View audit log", Module: "audit"},
}

var index map[string]Permission

func init() {
	index = make(map[string]Permission, len(registry))
	for _, p := range registry {
		if _, dup := index[p.Key]; dup {
			panic(fmt.Sprintf("permission registry: duplicate key %q", p.Key))
		}
		index[p.Key] = p
	}
}

// All returns the registry in declaration order.
func All() []Permission {
	out := make([]Permission, len(registry))
	copy(out, registry)
	return out
}

func Exists(key string) bool {
	_, ok := index[key]
	return ok
}

func Keys() []string {
	keys := make([]string, len(registry))
	for i, p := range registry {
		keys[i] = p.Key
	}
	return keys
}
