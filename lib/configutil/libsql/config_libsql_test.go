package configlibsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromDSN(t *testing.T) {
	cases := []struct {
		dsn    string
		expect Struct
	}{
		{"quotes.db", Struct{File: "quotes.db"}},
		{"/var/lib/quotes/snapshot.db", Struct{File: "/var/lib/quotes/snapshot.db"}},
		{"libsql://quotes.turso.io", Struct{Url: "libsql://quotes.turso.io"}},
		{"http://127.0.0.1:8080", Struct{Url: "http://127.0.0.1:8080"}},
		{"", Struct{}},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, FromDSN(test.dsn), "dsn: %q", test.dsn)
	}
	require.False(t, FromDSN("").Configured())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	db, err := Struct{File: path}.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("create table t (x integer)")
	require.NoError(t, err)
	require.FileExists(t, path)
}
