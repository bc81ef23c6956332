package writers

import (
	"context"
	"fmt"
	"io"

	"github.com/Nydauron/skatescore/records"
	"gopkg.in/yaml.v3"
)

type YAMLWriter struct {
	out io.WriteCloser
}

func NewYAMLWriter(out io.WriteCloser) *YAMLWriter {
	return &YAMLWriter{out: out}
}

func (w *YAMLWriter) WriteRun(_ context.Context, run Run) error {
	dump := records.Build(run.Results, run.Registry, run.Panels)

	yamlEncoder := yaml.NewEncoder(w.out)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(&dump); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	if err := yamlEncoder.Close(); err != nil {
		return fmt.Errorf("encoding to YAML failed on close: %w", err)
	}
	return nil
}

func (w *YAMLWriter) Close() error {
	return w.out.Close()
}
