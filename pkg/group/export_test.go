package group

import (
	"time"

	"github.com/cubelink/cubelink-go/pkg/connection"
)

// connectionBackoffForTests keeps scan retries fast.
var connectionBackoffForTests = connection.BackoffConfig{
	Initial: time.Millisecond,
	Max:     5 * time.Millisecond,
}
