package nav

import "errors"

// ErrEmptyRouteTable is returned by Navigate when the controller was
// built without any route entries. It is the only navigation error
// surfaced to the caller; mid-lifecycle hook failures are contained
// inside the controller and reported through the logger and the
// OnError callback.
var ErrEmptyRouteTable = errors.New("nav: route table is empty")

// errNoRoute is reported through OnError when no pattern matches and
// no fallback view is configured.
var errNoRoute = errors.New("nav: no route matched")
