package memcheck

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"go.uber.org/zap"

	"github.com/checkling/checkling/pkg/check"
)

// DefaultPath is the kernel's memory-statistics file.
const DefaultPath = "/proc/meminfo"

// Resource reads memory counters from a meminfo-format file and
// derives the free-memory percentage. With CacheAsFree set, page
// cache and buffers count as free, since the kernel reclaims them
// under pressure.
type Resource struct {
	Path        string // meminfo file, DefaultPath if empty
	CacheAsFree bool
	Log         *zap.Logger
}

func (r *Resource) MetricNames() []string {
	return []string{"free_percentage", "total", "free", check.FailureChannel}
}

// Probe parses the meminfo file. An unreadable or incomplete file is
// an operational failure and rides the failure channel.
func (r *Resource) Probe() ([]check.Metric, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	path := r.Path
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []check.Metric{check.NewFailure("read", fmt.Sprintf("cannot read %s: %v", path, err))}, nil
	}

	counters, err := parseMeminfo(string(data))
	if err != nil {
		return []check.Metric{check.NewFailure("parse", fmt.Sprintf("malformed %s: %v", path, err))}, nil
	}

	total, ok := counters["MemTotal"]
	if !ok || total == 0 {
		return []check.Metric{check.NewFailure("parse", fmt.Sprintf("%s has no usable MemTotal", path))}, nil
	}
	free, ok := counters["MemFree"]
	if !ok {
		return []check.Metric{check.NewFailure("parse", fmt.Sprintf("%s has no MemFree", path))}, nil
	}
	if r.CacheAsFree {
		free += counters["Cached"] + counters["Buffers"]
	}

	log.Debug("meminfo parsed",
		zap.String("path", path),
		zap.String("total", units.BytesSize(total*1024)),
		zap.String("free", units.BytesSize(free*1024)),
		zap.Bool("cache_as_free", r.CacheAsFree),
	)

	return []check.Metric{
		{
			Name:  "free_percentage",
			Value: free / total * 100,
			Unit:  "%",
			Min:   check.Float64(0),
			Max:   check.Float64(100),
		},
		{Name: "total", Value: total, Unit: "kB", Min: check.Float64(0)},
		{Name: "free", Value: free, Unit: "kB", Min: check.Float64(0)},
	}, nil
}

// parseMeminfo reads "key: value kB" lines into named counters.
// Values are in kB as reported by the kernel.
func parseMeminfo(content string) (map[string]float64, error) {
	counters := make(map[string]float64)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %q has no key", line)
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %q has no value", line)
		}
		value, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %q has a non-numeric value", line)
		}
		counters[strings.TrimSpace(key)] = value
	}
	if len(counters) == 0 {
		return nil, fmt.Errorf("no counters found")
	}
	return counters, nil
}
