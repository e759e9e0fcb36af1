package worker

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// Job is one recurring update trigger. Specs are standard five-field cron
// expressions evaluated in UTC.
type Job struct {
	Name            string          `yaml:"name"`
	Spec            string          `yaml:"spec"`
	RespectCalendar bool            `yaml:"respect_calendar"`
	Regions         []domain.Region `yaml:"regions,omitempty"`
}

// Schedule is the trigger table the scheduler registers on Start
type Schedule struct {
	Jobs []Job `yaml:"jobs"`
}

// DefaultSchedule returns the built-in trigger table
func DefaultSchedule() Schedule {
	return Schedule{Jobs: []Job{
		{Name: "market-open", Spec: "0 4,14 * * 1-5", RespectCalendar: true},
		{Name: "hourly-india", Spec: "0 4-10 * * 1-5", RespectCalendar: true, Regions: []domain.Region{domain.RegionIndian}},
		{Name: "hourly-us", Spec: "0 14-21 * * 1-5", RespectCalendar: true, Regions: []domain.Region{domain.RegionUS}},
		{Name: "end-of-day", Spec: "30 10,21 * * 1-5", RespectCalendar: true},
		{Name: "weekly", Spec: "0 2 * * 6"},
	}}
}

// LoadSchedule reads a YAML trigger table from path
func LoadSchedule(path string) (Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to read schedule file '%s': %w", path, err)
	}

	return ParseSchedule(data)
}

// ParseSchedule decodes and validates a YAML trigger table
func ParseSchedule(data []byte) (Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse schedule from YAML: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Schedule{}, fmt.Errorf("schedule validation failed: %w", err)
	}

	return s, nil
}

// Validate checks job names and cron expressions
func (s Schedule) Validate() error {
	if len(s.Jobs) == 0 {
		return fmt.Errorf("schedule has no jobs")
	}

	seen := make(map[string]bool, len(s.Jobs))
	for _, job := range s.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job name cannot be empty")
		}
		if seen[job.Name] {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true

		if _, err := cron.ParseStandard(job.Spec); err != nil {
			return fmt.Errorf("job %q: invalid cron spec %q: %w", job.Name, job.Spec, err)
		}

		for _, r := range job.Regions {
			if !validRegion(r) {
				return fmt.Errorf("job %q: unknown region %q", job.Name, r)
			}
		}
	}

	return nil
}

func validRegion(r domain.Region) bool {
	for _, known := range domain.Regions {
		if r == known {
			return true
		}
	}
	return false
}
