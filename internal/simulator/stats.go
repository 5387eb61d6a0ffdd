package simulator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chrisdamba/traveltime/internal/models"
)

// Stats summarises a set of outcomes.
type Stats struct {
	Total       int
	Failed      int
	ByLevel     map[models.TrafficLevel]int
	MeanMinutes float64
	MeanKm      float64
	MaxMinutes  int
}

func Summarize(outcomes []Outcome) Stats {
	stats := Stats{ByLevel: make(map[models.TrafficLevel]int)}
	var minutes, km float64
	for _, o := range outcomes {
		stats.Total++
		if o.Err != nil {
			stats.Failed++
			continue
		}
		stats.ByLevel[o.Response.TrafficLevel]++
		minutes += float64(o.Response.PredictedTime)
		km += o.Response.DistanceKm
		if o.Response.PredictedTime > stats.MaxMinutes {
			stats.MaxMinutes = o.Response.PredictedTime
		}
	}
	if ok := stats.Total - stats.Failed; ok > 0 {
		stats.MeanMinutes = minutes / float64(ok)
		stats.MeanKm = km / float64(ok)
	}
	return stats
}

func (s Stats) String() string {
	levels := make([]string, 0, len(s.ByLevel))
	for level, n := range s.ByLevel {
		levels = append(levels, fmt.Sprintf("%s=%d", level, n))
	}
	sort.Strings(levels)
	return fmt.Sprintf("trips=%d failed=%d mean=%.1fmin/%.1fkm max=%dmin levels[%s]",
		s.Total, s.Failed, s.MeanMinutes, s.MeanKm, s.MaxMinutes, strings.Join(levels, " "))
}
