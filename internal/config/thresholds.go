package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadThresholds returns the built-in threshold table, overlaid with the YAML
// file at path when path is non-empty. Keys absent from the file keep their
// defaults; a terrain entry replaces that terrain's whole signature.
func LoadThresholds(path string) (domain.Thresholds, error) {
	th := domain.DefaultThresholds()
	if path == "" {
		return th, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Thresholds{}, fmt.Errorf("read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(data, &th); err != nil {
		return domain.Thresholds{}, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}
	defaults := domain.DefaultThresholds()
	th.CurrentTyphoon = mergeMissing(th.CurrentTyphoon, defaults.CurrentTyphoon)
	th.CurrentStorm = mergeMissing(th.CurrentStorm, defaults.CurrentStorm)
	if err := validateThresholds(th); err != nil {
		return domain.Thresholds{}, fmt.Errorf("thresholds file %s: %w", path, err)
	}
	return th, nil
}

func validateThresholds(th domain.Thresholds) error {
	for _, terrain := range []domain.Terrain{domain.TerrainStandard, domain.TerrainHighland} {
		if _, ok := th.CurrentTyphoon[terrain]; !ok {
			return fmt.Errorf("current_typhoon has no %s entry", terrain)
		}
	}
	if th.SustainedMinDays < 1 {
		return fmt.Errorf("sustained_min_days must be at least 1, got %d", th.SustainedMinDays)
	}
	o := th.Outlook
	if !(o.Slight <= o.Moderate && o.Moderate <= o.Strong) {
		return fmt.Errorf("outlook buckets must be ascending: slight=%g moderate=%g strong=%g", o.Slight, o.Moderate, o.Strong)
	}
	return nil
}

func mergeMissing(dst, defaults map[domain.Terrain]domain.StormSignature) map[domain.Terrain]domain.StormSignature {
	if dst == nil {
		dst = make(map[domain.Terrain]domain.StormSignature, len(defaults))
	}
	for terrain, sig := range defaults {
		if _, ok := dst[terrain]; !ok {
			dst[terrain] = sig
		}
	}
	return dst
}
