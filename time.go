package ecs

import "time"

// nowFunc is indirected so tests can stub wall-clock time if ever needed;
// production code always uses time.Now.
var nowFunc = time.Now
