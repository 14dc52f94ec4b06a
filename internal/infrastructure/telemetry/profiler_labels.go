package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	LabelRoute   = "route"
	LabelMethod  = "method"
	LabelJobKind = "job_kind"
	LabelEvent   = "event_type"
)

// maxLabelValueLength caps label values
const maxLabelValueLength = 128

// highCardinalityLabels are dropped from profiles
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"job_id":     true,
	"idea_id":    true,
	"trace_id":   true,
	"span_id":    true,
}

// WithProfilingLabels runs fn with the given pprof labels attached
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// JobLabels labels a scheduled job run
func JobLabels(kind string) map[string]string {
	return map[string]string{LabelJobKind: kind}
}

// HTTPRequestLabels labels a request by its route template
func HTTPRequestLabels(route, method string) map[string]string {
	return map[string]string{LabelRoute: route, LabelMethod: method}
}

// sanitizeLabels returns sorted key/value pairs, skipping empty and
// high-cardinality entries and truncating long values.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, k := range keys {
		v := labels[k]
		key := sanitizeLabelKey(k)
		if key == "" || v == "" || highCardinalityLabels[key] {
			continue
		}
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, key, v)
	}
	return pairs
}

func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	return b.String()
}
