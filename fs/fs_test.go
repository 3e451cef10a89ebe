package appfs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFS(t *testing.T) {
	tests := []string{
		"templates/email/_base.gohtml",
		"templates/email/_base.txt",
		"templates/email/submission_received.txt",
		"migrations/20250901120000_users.sql",
		"locales/active.en.toml",
		"locales/active.fr.toml",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fs.Stat(FS, name)
			assert.NoError(t, err)
		})
	}
}
