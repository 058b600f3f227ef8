package specgen

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/devlog/errors"
	"github.com/grovetools/devlog/logging"
	"github.com/grovetools/devlog/pkg/profiling"
)

// Options control a Generate call. Zero values select the defaults.
type Options struct {
	// Output is the destination path; DefaultOutputPath(input) when empty.
	Output string
	// Type forces a template instead of detecting one.
	Type ProjectType
	// ProjectName defaults to the base name of the working directory.
	ProjectName string
	Now         func() time.Time
}

// DefaultOutputPath replaces the extension of input with "_spec.md".
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_spec.md"
}

// Generate reads the transcript at input and writes the rendered
// specification, returning the output path. The output file is replaced
// atomically; on failure nothing is written.
func Generate(input string, opts Options) (string, error) {
	logger := logging.NewLogger("specgen")

	defer profiling.Start("generate").Stop()

	readSpan := profiling.Start("read")
	data, err := os.ReadFile(input)
	readSpan.Stop()
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.InputNotFound(input)
		}
		return "", errors.GenerateFailed(err).WithDetail("path", input)
	}

	if opts.Type != "" {
		if _, err := ParseProjectType(string(opts.Type)); err != nil {
			return "", err
		}
	}

	name := opts.ProjectName
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.GenerateFailed(err)
		}
		name = filepath.Base(cwd)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	output := opts.Output
	if output == "" {
		output = DefaultOutputPath(input)
	}

	analyzeSpan := profiling.Start("analyze")
	analysis := Analyze(TranscriptText(data), opts.Type)
	analyzeSpan.Stop()
	logger.WithFields(map[string]interface{}{
		"input": input,
		"type":  analysis.ProjectType,
	}).Debug("Analyzed conversation")

	renderSpan := profiling.Start("render")
	content, err := Render(analysis.ProjectType, NewDocument(analysis, name, now()))
	renderSpan.Stop()
	if err != nil {
		return "", errors.GenerateFailed(err)
	}

	writeSpan := profiling.Start("write")
	defer writeSpan.Stop()
	if err := writeAtomic(output, []byte(content)); err != nil {
		return "", errors.GenerateFailed(err).WithDetail("path", output)
	}
	return output, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".specgen-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
