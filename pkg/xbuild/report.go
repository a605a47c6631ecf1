package xbuild

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Report collects the results of a single Run
type Report struct {
	RunID    string        `yaml:"run"`
	Started  time.Time     `yaml:"started"`
	Duration time.Duration `yaml:"duration"`
	Results  []*Result     `yaml:"results"`
}

// Failed returns all failed results in build order
func (r *Report) Failed() []*Result {
	result := make([]*Result, 0)
	for _, item := range r.Results {
		if item.Failed() {
			result = append(result, item)
		}
	}

	return result
}

// PackFailed returns all successful builds whose artifact couldn't be compressed
func (r *Report) PackFailed() []*Result {
	result := make([]*Result, 0)
	for _, item := range r.Results {
		if !item.Failed() && item.PackError != "" {
			result = append(result, item)
		}
	}

	return result
}

// Succeeded returns the number of builds that produced an artifact
func (r *Report) Succeeded() int {
	count := 0
	for _, item := range r.Results {
		if !item.Failed() && !item.Skipped {
			count++
		}
	}

	return count
}

// Err combines the errors of all failed builds. It returns nil if every build succeeded.
func (r *Report) Err() error {
	var err error
	for _, item := range r.Failed() {
		itemErr := item.Err()
		if itemErr == nil {
			// loaded from a file
			itemErr = eris.Errorf("%s: %s", item.Target, item.Error)
		}

		err = multierr.Append(err, itemErr)
	}

	return err
}

// WriteReport saves the report as YAML
func WriteReport(file string, report *Report) error {
	handle, err := os.Create(file)
	if err != nil {
		return eris.Wrapf(err, "failed to create report %s", file)
	}
	defer handle.Close()

	encoder := yaml.NewEncoder(handle)
	encoder.SetIndent(2)
	err = encoder.Encode(report)
	if err != nil {
		return eris.Wrapf(err, "failed to write report %s", file)
	}

	return encoder.Close()
}

// ReadReport loads a report written by WriteReport
func ReadReport(file string) (*Report, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open report %s", file)
	}
	defer handle.Close()

	var report Report
	err = yaml.NewDecoder(handle).Decode(&report)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse report %s", file)
	}

	return &report, nil
}
