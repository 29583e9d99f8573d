package permission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExists(t *testing.T) {
	assert.True(t, Exists("content.publish"))
	assert.True(t, Exists("users.delete"))
	assert.False(t, Exists("content.teleport"))
	assert.False(t, Exists(""))
}

func TestKeysAreNamespaced(t *testing.T) {
	for _, p := range All() {
		assert.Contains(t, p.Key, ".", "key %q should be module.action", p.Key)
		module := strings.SplitN(p.Key, ".", 2)[0]
		assert.Equal(t, p.Module, module, "key %q should live under its module", p.Key)
		assert.NotEmpty(t, p.Label)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Key = "tampered"
	assert.NotEqual(t, "tampered", All()[0].Key)
}

func TestKeysMatchRegistry(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, len(All()))
	for _, key := range keys {
		assert.True(t, Exists(key))
	}
}
