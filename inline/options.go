package inline

import (
	"io"
	"time"

	"github.com/vodhub/vodhub/aggregate"
)

// Options configure a non-interactive search.
type Options struct {
	Out io.Writer
	// Progress receives live provider progress in text streaming mode. Nil disables it.
	Progress   io.Writer
	Query      string
	Filter     aggregate.Filter
	Grouped    bool
	Json       bool
	Streaming  bool
	FlushDelay time.Duration
	// Width wraps descriptions. Zero disables them.
	Width int
}
