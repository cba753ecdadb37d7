package benchmark

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thebtf/momentum/pkg/models"
)

// seedFile is the on-disk layout of a cohort seed file.
type seedFile struct {
	Cohorts []models.BenchmarkCohort `yaml:"cohorts"`
}

// LoadCohorts reads benchmark cohorts from a YAML seed file.
func LoadCohorts(path string) ([]models.BenchmarkCohort, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cohort seed: %w", err)
	}
	return ParseCohorts(data)
}

// ParseCohorts decodes and validates YAML cohort seed data.
func ParseCohorts(data []byte) ([]models.BenchmarkCohort, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse cohort seed: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Cohorts))
	for i, c := range f.Cohorts {
		if strings.TrimSpace(c.CareerStage) == "" || strings.TrimSpace(c.TargetRole) == "" {
			return nil, fmt.Errorf("cohort %d: career_stage and target_role are required", i)
		}
		if c.AvgApplicationsPerWeek < 0 || c.AvgResponseRate < 0 || c.AvgInterviewRate < 0 {
			return nil, fmt.Errorf("cohort %d (%s/%s): averages must be non-negative", i, c.CareerStage, c.TargetRole)
		}
		key := c.CareerStage + "\x00" + c.TargetRole
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("cohort %d: duplicate cohort %s/%s", i, c.CareerStage, c.TargetRole)
		}
		seen[key] = struct{}{}
	}
	return f.Cohorts, nil
}
