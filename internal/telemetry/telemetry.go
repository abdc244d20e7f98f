package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so that tests can assert on
// what a component reported.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that broke in a way that should be addressed,
	// a page that could not be fetched or parsed for example.
	//
	// The `id` names the component that broke, not the specific line that broke.
	// A failed GET inside the quotes client is `client.fetch`, if you need to say that it
	// was the status code that was wrong, pass it as a param or wrap the error.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) use underscores for large components
	// 3) use dashes for methods part of a larger component
	//
	// See the `report_...` constants in each package for examples. ScopedAPI takes care
	// of the package part, so ids are usually just `<struct or intf>.<method>`.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that is not necessarily broken but may be worth
	// looking into, like a quote whose author never resolved.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only useful while debugging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the count of something at the current time, counts are points
	// of data and should not be summed.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportCount(id string, count int64)
}

// ScopedAPI is a telemetry API that prefixes every id with a namespace, like creating a
// "sub" logger with a prefix.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
