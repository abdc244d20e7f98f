package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"

	_ "modernc.org/sqlite"
)

// Report is a single call made against Telemetry.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

// Telemetry records everything reported to it, it satisfies the telemetry API
// of the internal packages.
type Telemetry struct {
	lock    sync.Mutex
	reports []Report
	counts  map[string]int64
}

func NewTelemetry() *Telemetry {
	return &Telemetry{counts: map[string]int64{}}
}

func (t *Telemetry) record(kind, id string, params []any) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.reports = append(t.reports, Report{Kind: kind, Id: id, Params: params})
}

func (t *Telemetry) ReportBroken(id string, params ...any) {
	t.record("broken", id, params)
}

func (t *Telemetry) ReportWarning(id string, params ...any) {
	t.record("warning", id, params)
}

func (t *Telemetry) ReportDebug(msg string, params ...any) {
	t.record("debug", msg, params)
}

func (t *Telemetry) ReportCount(id string, count int64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.counts[id] = count
}

// Reports returns every report of the given kind whose id ends with suffix.
func (t *Telemetry) Reports(kind, suffix string) []Report {
	t.lock.Lock()
	defer t.lock.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind && strings.HasSuffix(r.Id, suffix) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the last count reported under an id ending with suffix.
func (t *Telemetry) Count(suffix string) (int64, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for id, n := range t.counts {
		if strings.HasSuffix(id, suffix) {
			return n, true
		}
	}
	return 0, false
}

// OpenSQLite opens an in-memory sqlite database with the given schema applied,
// the database is closed when the test ends.
func OpenSQLite(t testing.TB, schema string) *sql.DB {
	// a shared cache keeps every pooled connection on the same in-memory db
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if schema == "" {
		return db
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}
	return db
}
