package writers

import (
	"context"
	"fmt"

	"github.com/Nydauron/skatescore/identity"
	"github.com/Nydauron/skatescore/protocol"
)

const (
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Run is everything one invocation read.
type Run struct {
	Results  []protocol.SegmentProtocols
	Registry *identity.Registry
	Panels   []identity.Panel
}

// Writer exports a run.
type Writer interface {
	WriteRun(ctx context.Context, run Run) error
	Close() error
}

// New opens a writer of the given format at output.
func New(format, output string) (Writer, error) {
	switch format {
	case FormatYAML, "":
		return NewYAMLWriter(OpenOutput(output)), nil
	case FormatSQLite:
		if output == StdoutName {
			return nil, fmt.Errorf("sqlite output needs a file path")
		}
		return OpenSQLite(output)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
